package domain

import "time"

// FilterWindow returns the events whose origin time falls in the half-open
// interval [now - startHoursAgo, now - endHoursAgo). The start edge is
// inclusive, the end edge exclusive, so adjacent windows never double-count
// an event. Order is preserved.
func FilterWindow(events []Event, startHoursAgo, endHoursAgo float64, now time.Time) []Event {
	start := now.Add(-time.Duration(startHoursAgo * float64(time.Hour)))
	end := now.Add(-time.Duration(endHoursAgo * float64(time.Hour)))
	return filterInterval(events, start, end)
}

// FilterWindowDays is the day-granularity variant of FilterWindow for
// multi-day horizons, with the same half-open interval semantics.
func FilterWindowDays(events []Event, startDaysAgo, endDaysAgo int, now time.Time) []Event {
	start := now.AddDate(0, 0, -startDaysAgo)
	end := now.AddDate(0, 0, -endDaysAgo)
	return filterInterval(events, start, end)
}

func filterInterval(events []Event, start, end time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.Time.Before(start) && e.Time.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// DedupeByID removes events whose id already appeared earlier in the slice,
// keeping the first occurrence. Windows that receive overlapping fetches are
// deduplicated with this before any further derivation.
func DedupeByID(events []Event) []Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
