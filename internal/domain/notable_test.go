package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidateNotable(t *testing.T) {
	t.Run("from empty state", func(t *testing.T) {
		a := evt("a", 7.0, time.UnixMilli(10).UTC())
		b := evt("b", 6.5, time.UnixMilli(5).UTC())

		got := ConsolidateNotable(NotableEvents{}, []Event{a, b})

		require.NotNil(t, got.Last)
		require.NotNil(t, got.Previous)
		assert.Equal(t, "a", got.Last.ID)
		assert.Equal(t, "b", got.Previous.ID)
		require.NotNil(t, got.DeltaMillis)
		assert.Equal(t, int64(5), *got.DeltaMillis)
	})

	t.Run("empty candidates is a fixed point", func(t *testing.T) {
		a := evt("a", 7.0, time.UnixMilli(10).UTC())
		b := evt("b", 6.5, time.UnixMilli(5).UTC())
		prev := ConsolidateNotable(NotableEvents{}, []Event{a, b})

		got := ConsolidateNotable(prev, nil)

		assert.Equal(t, prev, got)
	})

	t.Run("newer candidate displaces, never loses", func(t *testing.T) {
		prev := ConsolidateNotable(NotableEvents{}, []Event{
			evt("old", 7.9, time.UnixMilli(100).UTC()),
		})

		got := ConsolidateNotable(prev, []Event{evt("new", 5.1, time.UnixMilli(200).UTC())})

		assert.Equal(t, "new", got.Last.ID)
		assert.Equal(t, "old", got.Previous.ID)
	})

	t.Run("recency beats magnitude", func(t *testing.T) {
		huge := evt("huge", 8.8, time.UnixMilli(50).UTC())
		recent := evt("recent", 5.2, time.UnixMilli(90).UTC())

		got := ConsolidateNotable(NotableEvents{}, []Event{huge, recent})

		assert.Equal(t, "recent", got.Last.ID)
		assert.Equal(t, "huge", got.Previous.ID)
	})

	t.Run("candidates already tracked dedupe by id", func(t *testing.T) {
		a := evt("a", 6.0, time.UnixMilli(20).UTC())
		prev := ConsolidateNotable(NotableEvents{}, []Event{a})

		got := ConsolidateNotable(prev, []Event{a})

		assert.Equal(t, "a", got.Last.ID)
		assert.Nil(t, got.Previous)
		assert.Nil(t, got.DeltaMillis)
	})

	t.Run("single event has no delta", func(t *testing.T) {
		got := ConsolidateNotable(NotableEvents{}, []Event{evt("only", 6.1, time.UnixMilli(7).UTC())})

		assert.Equal(t, "only", got.Last.ID)
		assert.Nil(t, got.Previous)
		assert.Nil(t, got.DeltaMillis)
	})

	t.Run("nothing seen yet", func(t *testing.T) {
		got := ConsolidateNotable(NotableEvents{}, nil)
		assert.Equal(t, NotableEvents{}, got)
	})
}

func TestMajorCandidates(t *testing.T) {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	events := []Event{
		evt("major", 5.0, base),
		evt("minor", 4.9, base),
		{ID: "nomag", Time: base},
	}

	got := MajorCandidates(events, 5.0)

	require.Len(t, got, 1)
	assert.Equal(t, "major", got[0].ID)
}
