package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterWindow(t *testing.T) {
	now := time.UnixMilli(1_000_000).UTC()

	t.Run("half-open boundaries", func(t *testing.T) {
		inside := evt("in", 3.0, now.Add(-30*time.Minute))
		atStart := evt("start", 3.0, now.Add(-time.Hour))
		beforeStart := evt("old", 3.0, now.Add(-time.Hour).Add(-time.Millisecond))
		atEnd := evt("now", 3.0, now)

		got := FilterWindow([]Event{inside, atStart, beforeStart, atEnd}, 1, 0, now)

		require.Len(t, got, 2)
		assert.Equal(t, "in", got[0].ID)
		assert.Equal(t, "start", got[1].ID)
	})

	t.Run("inner window excludes newer events", func(t *testing.T) {
		recent := evt("recent", 3.0, now.Add(-30*time.Minute))
		older := evt("older", 3.0, now.Add(-2*time.Hour))

		got := FilterWindow([]Event{recent, older}, 24, 1, now)

		require.Len(t, got, 1)
		assert.Equal(t, "older", got[0].ID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterWindow(nil, 24, 0, now))
		assert.Empty(t, FilterWindow([]Event{}, 24, 0, now))
	})
}

func TestFilterWindowDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	within := evt("within", 4.0, now.AddDate(0, 0, -6))
	atEdge := evt("edge", 4.0, now.AddDate(0, 0, -7))
	outside := evt("outside", 4.0, now.AddDate(0, 0, -7).Add(-time.Second))

	got := FilterWindowDays([]Event{within, atEdge, outside}, 7, 0, now)

	require.Len(t, got, 2)
	assert.Equal(t, "within", got[0].ID)
	assert.Equal(t, "edge", got[1].ID)
}

func TestDedupeByID(t *testing.T) {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("first occurrence wins", func(t *testing.T) {
		first := evt("a", 5.0, base)
		dupe := evt("a", 2.0, base.Add(time.Hour))
		other := evt("b", 3.0, base)

		got := DedupeByID([]Event{first, dupe, other})

		require.Len(t, got, 2)
		assert.Equal(t, 5.0, got[0].Mag())
		assert.Equal(t, "b", got[1].ID)
	})

	t.Run("no duplicates is identity", func(t *testing.T) {
		in := []Event{evt("a", 1, base), evt("b", 2, base), evt("c", 3, base)}
		assert.Equal(t, in, DedupeByID(in))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, DedupeByID(nil))
	})
}
