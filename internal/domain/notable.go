package domain

import "sort"

// ConsolidateNotable folds newly observed major events into the previously
// tracked notable pointers. The candidates and previous pointers are
// unioned, deduplicated by id (candidates win), and ordered by origin time
// descending; the two most recent qualifying events become the new pointers.
//
// The result is the two most recent notables ever observed, not the two
// largest: Last.Mag() >= Previous.Mag() is not guaranteed. With no new
// candidates the fold is a fixed point, which is what keeps the pointers
// from regressing when qualifying events roll out of the raw feed window.
func ConsolidateNotable(prev NotableEvents, candidates []Event) NotableEvents {
	pool := make([]Event, 0, len(candidates)+2)
	pool = append(pool, candidates...)
	if prev.Last != nil {
		pool = append(pool, *prev.Last)
	}
	if prev.Previous != nil {
		pool = append(pool, *prev.Previous)
	}

	pool = DedupeByID(pool)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Time.After(pool[j].Time)
	})

	var out NotableEvents
	if len(pool) > 0 {
		last := pool[0]
		out.Last = &last
	}
	if len(pool) > 1 {
		previous := pool[1]
		out.Previous = &previous
		delta := out.Last.Time.Sub(previous.Time).Milliseconds()
		out.DeltaMillis = &delta
	}
	return out
}

// MajorCandidates filters a batch down to events qualifying as notable.
func MajorCandidates(events []Event, threshold float64) []Event {
	var out []Event
	for _, e := range events {
		if e.Magnitude != nil && *e.Magnitude >= threshold {
			out = append(out, e)
		}
	}
	return out
}
