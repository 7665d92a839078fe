package domain

import (
	"math"
	"time"
)

// MagnitudeRange is one histogram bucket: inclusive of Min, exclusive of
// Max. Ranges must be non-overlapping and, with the catch-all bucket,
// exhaustive over the real line; the first matching range wins.
type MagnitudeRange struct {
	Name string
	Min  float64
	Max  float64
}

// DefaultMagnitudeRanges is the fixed bucket ladder used by the reducers,
// matching the magnitude bands rendered by the visualizations.
func DefaultMagnitudeRanges() []MagnitudeRange {
	return []MagnitudeRange{
		{Name: "<1", Min: math.Inf(-1), Max: 1},
		{Name: "1-1.9", Min: 1, Max: 2},
		{Name: "2-2.9", Min: 2, Max: 3},
		{Name: "3-3.9", Min: 3, Max: 4},
		{Name: "4-4.9", Min: 4, Max: 5},
		{Name: "5-5.9", Min: 5, Max: 6},
		{Name: "6-6.9", Min: 6, Max: 7},
		{Name: "7+", Min: 7, Max: math.Inf(1)},
	}
}

// MagnitudeHistogram counts events per magnitude range, returning one count
// per range in the given order. Events without a magnitude are skipped and
// contribute to no bucket.
func MagnitudeHistogram(events []Event, ranges []MagnitudeRange) []RangeCount {
	counts := make([]RangeCount, len(ranges))
	for i, r := range ranges {
		counts[i] = RangeCount{Name: r.Name}
	}
	for _, e := range events {
		if e.Magnitude == nil {
			continue
		}
		for i, r := range ranges {
			if *e.Magnitude >= r.Min && *e.Magnitude < r.Max {
				counts[i].Count++
				break
			}
		}
	}
	return counts
}

// DailyCounts buckets events by UTC day over the last days days ending at
// now. Every day bucket is seeded at zero so chart rendering gets a dense
// series; events outside the covered days are ignored.
func DailyCounts(events []Event, days int, now time.Time) []DayCount {
	if days <= 0 {
		return nil
	}

	today := midnightUTC(now)
	counts := make([]DayCount, days)
	index := make(map[time.Time]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -(days - 1 - i))
		counts[i] = DayCount{Day: day}
		index[day] = i
	}

	for _, e := range events {
		if i, ok := index[midnightUTC(e.Time)]; ok {
			counts[i].Count++
		}
	}
	return counts
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
