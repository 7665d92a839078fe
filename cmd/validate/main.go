// Command validate performs integrity checks on a published derived-views
// snapshot, optionally cross-checking it against the raw feed fixture it was
// derived from. It verifies window containment, dedup guarantees, histogram
// and daily-count consistency, sampling bounds, and notable-event ordering.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -snapshot data/mock/snapshot_260315.json \
//	  -feed data/mock/feed_260315.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/quake-derived-views/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "", "path to derived snapshot JSON")
	feedPath := flag.String("feed", "", "optional raw feed fixture to cross-check against")
	flag.Parse()

	if *snapshotPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshotPath, *feedPath); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, feedPath string) int {
	fmt.Println("=== Derived Views Integrity Validation ===")
	fmt.Println()

	snap, err := loadSnapshot(snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateWindows(snap.State),
		validateAggregates(snap.State),
		validateNotable(snap.State.Notable),
	}
	if feedPath != "" {
		p, err := validateAgainstFeed(snap, feedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load feed: %v\n", err)
			return 1
		}
		phases = append(phases, p)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadSnapshot(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, err
	}
	if !snap.Horizon.Valid() {
		return domain.Snapshot{}, fmt.Errorf("unknown horizon %q", snap.Horizon)
	}
	return snap, nil
}

// ── Phase 1: Windows ──
// Every window must be duplicate-free, time-ordered membership aside, and
// narrower windows must be subsets of the wider ones they sit inside.

func validateWindows(state domain.DerivedState) *phase {
	p := &phase{name: "Phase 1: Windows (dedup, containment)"}

	windows := []struct {
		name   string
		events []domain.Event
	}{
		{"short.events_1h", state.Short.Events1h},
		{"short.events_24h", state.Short.Events24h},
		{"medium.events_7d", state.Medium.Events7d},
		{"long.events_14d", state.Long.Events14d},
		{"long.events_30d", state.Long.Events30d},
	}

	for _, w := range windows {
		seen := map[string]bool{}
		for i, e := range w.events {
			if e.ID == "" {
				p.errorf("%s[%d]: empty event id", w.name, i)
				continue
			}
			if seen[e.ID] {
				p.errorf("%s: duplicate id %q", w.name, e.ID)
			}
			seen[e.ID] = true
			if e.Time.IsZero() {
				p.errorf("%s: event %q has zero time", w.name, e.ID)
			}
		}
	}

	checkSubset(p, "short.events_1h", state.Short.Events1h, "short.events_24h", state.Short.Events24h)
	checkSubset(p, "long.events_14d", state.Long.Events14d, "long.events_30d", state.Long.Events30d)

	return p
}

func checkSubset(p *phase, innerName string, inner []domain.Event, outerName string, outer []domain.Event) {
	ids := make(map[string]bool, len(outer))
	for _, e := range outer {
		ids[e.ID] = true
	}
	for _, e := range inner {
		if !ids[e.ID] {
			p.errorf("%s: event %q missing from %s", innerName, e.ID, outerName)
		}
	}
}

// ── Phase 2: Aggregates ──
// Histograms, daily counts, samples, and alert status must be consistent
// with the windows they were derived from.

func validateAggregates(state domain.DerivedState) *phase {
	p := &phase{name: "Phase 2: Aggregates (histogram, daily, samples)"}

	checkHistogram(p, "medium.histogram", state.Medium.Histogram, state.Medium.Events7d)
	checkHistogram(p, "long.histogram", state.Long.Histogram, state.Long.Events30d)

	checkDaily(p, "medium.daily", state.Medium.Daily, 7)
	checkDaily(p, "long.daily", state.Long.Daily, 30)

	checkSample(p, "medium.sampled", state.Medium.Sampled, state.Medium.Events7d)
	checkSample(p, "long.sampled_14d", state.Long.Sampled14d, state.Long.Events14d)
	checkSample(p, "long.sampled_30d", state.Long.Sampled30d, state.Long.Events30d)

	checkAlert(p, state.Short)

	return p
}

func checkHistogram(p *phase, name string, histogram []domain.RangeCount, events []domain.Event) {
	ranges := domain.DefaultMagnitudeRanges()
	if len(histogram) != len(ranges) {
		p.errorf("%s: expected %d buckets, got %d", name, len(ranges), len(histogram))
		return
	}
	total := 0
	for i, rc := range histogram {
		if rc.Name != ranges[i].Name {
			p.errorf("%s[%d]: bucket %q, expected %q", name, i, rc.Name, ranges[i].Name)
		}
		if rc.Count < 0 {
			p.errorf("%s[%d]: negative count %d", name, i, rc.Count)
		}
		total += rc.Count
	}

	withMag := 0
	for _, e := range events {
		if e.Magnitude != nil {
			withMag++
		}
	}
	if total != withMag {
		p.errorf("%s: bucket total %d, window has %d events with magnitude", name, total, withMag)
	}
}

// checkDaily validates bucket count and ordering only. Bucket totals are
// deliberately not reconciled against the window: day buckets are anchored
// at UTC midnights while the window is a rolling span of whole days, so
// events at the window's old edge legitimately fall outside every bucket.
func checkDaily(p *phase, name string, daily []domain.DayCount, days int) {
	if len(daily) != days {
		p.errorf("%s: expected %d buckets, got %d", name, days, len(daily))
		return
	}
	for i := 1; i < len(daily); i++ {
		if !daily[i].Day.After(daily[i-1].Day) {
			p.errorf("%s: buckets out of order at index %d", name, i)
		}
	}
}

func checkSample(p *phase, name string, sampled, window []domain.Event) {
	if len(sampled) > len(window) {
		p.errorf("%s: %d sampled events exceed window size %d", name, len(sampled), len(window))
	}
	ids := make(map[string]bool, len(window))
	for _, e := range window {
		ids[e.ID] = true
	}
	seen := map[string]bool{}
	for _, e := range sampled {
		if !ids[e.ID] {
			p.errorf("%s: sampled event %q not in source window", name, e.ID)
		}
		if seen[e.ID] {
			p.errorf("%s: duplicate sampled id %q", name, e.ID)
		}
		seen[e.ID] = true
	}
}

func checkAlert(p *phase, short domain.ShortState) {
	if !short.Alert.Level.Elevated() {
		if len(short.Alert.TriggeringEvents) != 0 {
			p.errorf("alert: level %q carries %d triggering events", short.Alert.Level, len(short.Alert.TriggeringEvents))
		}
	} else {
		if len(short.Alert.TriggeringEvents) == 0 {
			p.errorf("alert: elevated level %q with no triggering events", short.Alert.Level)
		}
		for _, e := range short.Alert.TriggeringEvents {
			if e.Alert != short.Alert.Level {
				p.errorf("alert: triggering event %q has level %q, status is %q", e.ID, e.Alert, short.Alert.Level)
			}
		}
	}

	if short.Tsunami.Warning && short.Tsunami.TriggeringEvent == nil {
		p.errorf("tsunami: warning set without a triggering event")
	}
	if !short.Tsunami.Warning && short.Tsunami.TriggeringEvent != nil {
		p.errorf("tsunami: triggering event %q without a warning", short.Tsunami.TriggeringEvent.ID)
	}
}

// ── Phase 3: Notable ──

func validateNotable(n domain.NotableEvents) *phase {
	p := &phase{name: "Phase 3: Notable (ordering, delta)"}

	if n.Last == nil {
		if n.Previous != nil {
			p.errorf("previous set without last")
		}
		if n.DeltaMillis != nil {
			p.errorf("delta set without events")
		}
		return p
	}

	if n.Previous == nil {
		if n.DeltaMillis != nil {
			p.errorf("delta set with a single event")
		}
		return p
	}

	if n.Last.ID == n.Previous.ID {
		p.errorf("last and previous are the same event %q", n.Last.ID)
	}
	if n.Previous.Time.After(n.Last.Time) {
		p.errorf("previous (%s) is newer than last (%s)",
			n.Previous.Time.Format(time.RFC3339), n.Last.Time.Format(time.RFC3339))
	}
	if n.DeltaMillis == nil {
		p.errorf("two events but no delta")
	} else if want := n.Last.Time.Sub(n.Previous.Time).Milliseconds(); *n.DeltaMillis != want {
		p.errorf("delta is %d ms, expected %d ms", *n.DeltaMillis, want)
	}

	return p
}

// ── Phase 4: Feed Cross-Check ──
// Re-derives the snapshot's horizon from the raw feed at the snapshot's
// fetch time and compares the window counts.

func validateAgainstFeed(snap domain.Snapshot, feedPath string) (*phase, error) {
	p := &phase{name: "Phase 4: Feed Cross-Check (re-derivation)"}

	data, err := os.ReadFile(feedPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	events, err := domain.ParseFeed(data, logger)
	if err != nil {
		return nil, err
	}

	reducer := domain.NewReducer(domain.MajorMagnitude, logger)
	derived := reducer.Reduce(snap.Horizon, domain.DerivedState{}, events, snap.FetchedAt)

	compare := func(name string, got, want []domain.Event) {
		if len(got) != len(want) {
			p.errorf("%s: snapshot has %d events, re-derivation has %d", name, len(got), len(want))
		}
	}

	switch snap.Horizon {
	case domain.HorizonShort:
		compare("short.events_1h", snap.State.Short.Events1h, derived.Short.Events1h)
		compare("short.events_24h", snap.State.Short.Events24h, derived.Short.Events24h)
	case domain.HorizonMedium:
		compare("medium.events_7d", snap.State.Medium.Events7d, derived.Medium.Events7d)
	case domain.HorizonLong:
		compare("long.events_14d", snap.State.Long.Events14d, derived.Long.Events14d)
		compare("long.events_30d", snap.State.Long.Events30d, derived.Long.Events30d)
	}

	return p, nil
}
