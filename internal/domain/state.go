package domain

import (
	"log/slog"
	"time"
)

// MajorMagnitude is the default threshold above which an event counts as a
// major quake. It qualifies events for notable tracking and is the priority
// cutoff for render sampling.
const MajorMagnitude = 5.0

// Render-budget sample sizes per multi-day window.
const (
	sampleBudget7d  = 400
	sampleBudget14d = 600
	sampleBudget30d = 800
)

// Per-day count spans for the multi-day horizons.
const (
	dailyDays7d  = 7
	dailyDays30d = 30
)

// NewSnapshot wraps a derived state for publication, stamping the production
// time from the package clock.
func NewSnapshot(h Horizon, fetchedAt time.Time, state DerivedState) Snapshot {
	return Snapshot{
		Horizon:    h,
		FetchedAt:  fetchedAt,
		ProducedAt: clock.Now(),
		State:      state,
	}
}

// Reducer derives new snapshots from raw refreshes. All methods are pure
// with respect to their inputs: the previous state is never mutated, each
// transition returns a fresh DerivedState with only the invoked horizon's
// fields replaced. A reducer never fails; degenerate input degrades to
// empty views.
type Reducer struct {
	major  float64
	logger *slog.Logger
}

// NewReducer creates a Reducer with the given major-quake threshold.
func NewReducer(major float64, logger *slog.Logger) *Reducer {
	if major <= 0 {
		major = MajorMagnitude
	}
	return &Reducer{major: major, logger: logger}
}

// Reduce applies one refresh for the given horizon. now is the collector's
// fetch timestamp and anchors all window math for this refresh. Unknown
// horizons return the previous state unchanged.
//
// Horizon refreshes are independent and may overlap; every handler folds the
// previous snapshot's notable pointers, so out-of-order refreshes converge
// rather than corrupt state.
func (r *Reducer) Reduce(h Horizon, prev DerivedState, batch []Event, now time.Time) DerivedState {
	switch h {
	case HorizonShort:
		return r.reduceShort(prev, batch, now)
	case HorizonMedium:
		return r.reduceMedium(prev, batch, now)
	case HorizonLong:
		return r.reduceLong(prev, batch, now)
	}
	r.logger.Warn("reduce: unknown horizon", "horizon", string(h))
	return prev
}

func (r *Reducer) reduceShort(prev DerivedState, batch []Event, now time.Time) DerivedState {
	batch = DedupeByID(batch)
	events24h := FilterWindow(batch, 24, 0, now)

	next := prev
	next.Short = ShortState{
		Events1h:  FilterWindow(batch, 1, 0, now),
		Events24h: events24h,
		Alert:     ConsolidateAlerts(events24h),
		Tsunami:   DetectTsunami(events24h),
		FetchedAt: now,
	}
	next.Notable = ConsolidateNotable(prev.Notable, MajorCandidates(batch, r.major))
	return next
}

func (r *Reducer) reduceMedium(prev DerivedState, batch []Event, now time.Time) DerivedState {
	batch = DedupeByID(batch)
	events7d := FilterWindowDays(batch, 7, 0, now)

	next := prev
	next.Medium = MediumState{
		Events7d:  events7d,
		Histogram: MagnitudeHistogram(events7d, DefaultMagnitudeRanges()),
		Daily:     DailyCounts(events7d, dailyDays7d, now),
		Sampled:   SamplePriority(events7d, sampleBudget7d, r.major),
		FetchedAt: now,
	}
	next.Notable = ConsolidateNotable(prev.Notable, MajorCandidates(batch, r.major))
	return next
}

func (r *Reducer) reduceLong(prev DerivedState, batch []Event, now time.Time) DerivedState {
	batch = DedupeByID(batch)
	events14d := FilterWindowDays(batch, 14, 0, now)
	events30d := FilterWindowDays(batch, 30, 0, now)

	next := prev
	next.Long = LongState{
		Events14d:  events14d,
		Events30d:  events30d,
		Histogram:  MagnitudeHistogram(events30d, DefaultMagnitudeRanges()),
		Daily:      DailyCounts(events30d, dailyDays30d, now),
		Sampled14d: SamplePriority(events14d, sampleBudget14d, r.major),
		Sampled30d: SamplePriority(events30d, sampleBudget30d, r.major),
		FetchedAt:  now,
	}
	next.Notable = ConsolidateNotable(prev.Notable, MajorCandidates(batch, r.major))
	return next
}
