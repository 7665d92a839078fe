package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededRand installs a deterministic rand source for the test and restores
// the shared source afterwards.
func seededRand(t *testing.T) {
	t.Helper()
	SetRandSource(rand.New(rand.NewSource(7)))
	t.Cleanup(func() { SetRandSource(nil) })
}

func makeEvents(n int, mag float64) []Event {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	out := make([]Event, n)
	for i := range out {
		out[i] = evt(string(rune('a'+i%26))+string(rune('0'+i/26)), mag, base)
	}
	return out
}

func TestSamplePriority(t *testing.T) {
	seededRand(t)

	t.Run("priority events all retained when under budget", func(t *testing.T) {
		events := append(makeEvents(20, 2.0), evt("big1", 6.0, time.Now()), evt("big2", 7.2, time.Now()))

		got := SamplePriority(events, 10, 5.0)

		require.Len(t, got, 10)
		assert.Contains(t, eventIDs(got), "big1")
		assert.Contains(t, eventIDs(got), "big2")
	})

	t.Run("only priority events when they exceed the budget", func(t *testing.T) {
		events := append(makeEvents(10, 6.0), makeEvents(5, 1.0)...)

		got := SamplePriority(events, 4, 5.0)

		require.Len(t, got, 4)
		for _, e := range got {
			assert.GreaterOrEqual(t, e.Mag(), 5.0)
		}
	})

	t.Run("sample size at least input returns every event", func(t *testing.T) {
		events := makeEvents(5, 3.0)

		got := SamplePriority(events, 5, 5.0)

		assert.ElementsMatch(t, eventIDs(events), eventIDs(got))

		got = SamplePriority(events, 50, 5.0)
		assert.ElementsMatch(t, eventIDs(events), eventIDs(got))
	})

	t.Run("non-positive sample size", func(t *testing.T) {
		events := makeEvents(5, 3.0)

		assert.Empty(t, SamplePriority(events, 0, 5.0))
		assert.Empty(t, SamplePriority(events, -3, 5.0))
	})

	t.Run("missing magnitude is never priority", func(t *testing.T) {
		noMag := Event{ID: "nomag", Time: time.Now()}
		events := append(makeEvents(10, 6.0), noMag)

		got := SamplePriority(events, 10, 5.0)

		require.Len(t, got, 10)
		assert.NotContains(t, eventIDs(got), "nomag")
	})

	t.Run("input left intact", func(t *testing.T) {
		events := makeEvents(8, 3.0)
		before := eventIDs(events)

		SamplePriority(events, 4, 5.0)

		assert.Equal(t, before, eventIDs(events))
	})

	t.Run("no duplicate selections", func(t *testing.T) {
		events := makeEvents(30, 2.0)

		got := SamplePriority(events, 12, 5.0)

		require.Len(t, got, 12)
		seen := map[string]struct{}{}
		for _, e := range got {
			_, dup := seen[e.ID]
			assert.False(t, dup, "event %s sampled twice", e.ID)
			seen[e.ID] = struct{}{}
		}
	})
}
