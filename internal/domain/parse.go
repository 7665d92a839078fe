package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// featureCollection mirrors the subset of the USGS GeoJSON feed this service
// consumes. All property fields are pointers because the feed emits explicit
// nulls for unreviewed events.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string          `json:"id"`
	Properties featureProps    `json:"properties"`
	Geometry   featureGeometry `json:"geometry"`
}

type featureProps struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    *int64   `json:"time"` // epoch milliseconds
	Alert   *string  `json:"alert"`
	Tsunami *int     `json:"tsunami"`
}

type featureGeometry struct {
	Coordinates []*float64 `json:"coordinates"` // [lon, lat, depthKm]
}

// ParseFeed deserializes a raw GeoJSON feed payload into validated events,
// preserving feed order. Features without an id or origin time are dropped
// with a warning. Features with short or null coordinate arrays keep their
// event but carry a nil Geo, which excludes them from clustering only.
//
// Shape validation happens here, once, so downstream algorithms can assume
// well-formed events.
func ParseFeed(data []byte, logger *slog.Logger) ([]Event, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	events := make([]Event, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.ID == "" {
			logger.Warn("skipping feature without id")
			continue
		}
		if f.Properties.Time == nil {
			logger.Warn("skipping feature without origin time", "event_id", f.ID)
			continue
		}

		e := Event{
			ID:        f.ID,
			Time:      time.UnixMilli(*f.Properties.Time).UTC(),
			Magnitude: f.Properties.Mag,
			Alert:     parseAlert(f.Properties.Alert),
			Tsunami:   f.Properties.Tsunami != nil && *f.Properties.Tsunami == 1,
			Geo:       parseCoordinates(f.Geometry.Coordinates),
		}
		if f.Properties.Place != nil {
			e.Place = *f.Properties.Place
		}
		if e.Geo == nil {
			logger.Warn("feature has malformed coordinates", "event_id", f.ID)
		}
		events = append(events, e)
	}
	return events, nil
}

// parseAlert maps a feed alert string to an AlertLevel. Null, "none", and
// unrecognized values all collapse to AlertNone.
func parseAlert(s *string) AlertLevel {
	if s == nil {
		return AlertNone
	}
	switch AlertLevel(*s) {
	case AlertGreen, AlertYellow, AlertOrange, AlertRed:
		return AlertLevel(*s)
	}
	return AlertNone
}

// parseCoordinates converts a GeoJSON coordinate array to a Geo. Arrays
// shorter than two elements or with null lon/lat are malformed and yield nil.
// A missing depth is treated as 0.
func parseCoordinates(coords []*float64) *Geo {
	if len(coords) < 2 || coords[0] == nil || coords[1] == nil {
		return nil
	}
	g := &Geo{Lon: *coords[0], Lat: *coords[1]}
	if len(coords) > 2 && coords[2] != nil {
		g.DepthKm = *coords[2]
	}
	return g
}
