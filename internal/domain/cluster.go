package domain

import (
	"log/slog"
	"sort"
)

// Cluster is a group of co-located events anchored by its seed. Events[0] is
// always the seed; every member lies within the clustering distance of the
// seed, measured by Haversine. Membership is a star relation to the seed,
// not a connected-components relation, so two members may be farther apart
// than the clustering distance from each other.
type Cluster struct {
	Seed   Event   `json:"seed"`
	Events []Event `json:"events"`
}

// Size returns the number of events in the cluster, seed included.
func (c Cluster) Size() int {
	return len(c.Events)
}

// FindClusters groups events geographically using greedy, magnitude-priority
// clustering. Events are visited in magnitude-descending order (missing
// magnitudes rank as 0; ties keep input order), each unprocessed event seeds
// a cluster, and every remaining unprocessed event within maxDistanceKm of
// the seed joins it. Clusters smaller than minQuakes are discarded, but
// their members stay consumed and are never reconsidered as seeds or joined
// to another cluster. This single-assignment policy can leave valid nearby
// pairs unclustered.
//
// Events without an id or without coordinates are skipped with a warning,
// both as seeds and as candidates. Clusters are returned in seed processing
// order, i.e. highest seed magnitude first.
//
// Temporal proximity is deliberately not a factor; clustering a 30-day
// window groups events months apart if they share an epicenter region.
// Folding origin time into membership is a possible future enhancement.
func FindClusters(events []Event, maxDistanceKm float64, minQuakes int, logger *slog.Logger) []Cluster {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Mag() > sorted[j].Mag()
	})

	processed := make(map[string]struct{}, len(sorted))
	var clusters []Cluster

	for i, seed := range sorted {
		if !clusterable(seed, processed, logger) {
			continue
		}
		processed[seed.ID] = struct{}{}

		cluster := Cluster{Seed: seed, Events: []Event{seed}}
		for _, candidate := range sorted[i+1:] {
			if !clusterable(candidate, processed, logger) {
				continue
			}
			if Haversine(*seed.Geo, *candidate.Geo) <= maxDistanceKm {
				cluster.Events = append(cluster.Events, candidate)
				processed[candidate.ID] = struct{}{}
			}
		}

		if cluster.Size() >= minQuakes {
			clusters = append(clusters, cluster)
		}
	}
	return clusters
}

// clusterable reports whether an event can participate in clustering: it
// needs an id, coordinates, and must not already belong to a cluster attempt.
func clusterable(e Event, processed map[string]struct{}, logger *slog.Logger) bool {
	if e.ID == "" {
		logger.Warn("clustering: skipping event without id")
		return false
	}
	if e.Geo == nil {
		logger.Warn("clustering: skipping event without coordinates", "event_id", e.ID)
		return false
	}
	_, done := processed[e.ID]
	return !done
}
