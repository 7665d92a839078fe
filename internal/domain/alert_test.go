package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertEvt(id string, level AlertLevel, t time.Time) Event {
	e := evt(id, 5.0, t)
	e.Alert = level
	return e
}

func TestConsolidateAlerts(t *testing.T) {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("highest severity wins", func(t *testing.T) {
		events := []Event{
			alertEvt("y", AlertYellow, base),
			alertEvt("o", AlertOrange, base),
			alertEvt("g", AlertGreen, base),
		}

		got := ConsolidateAlerts(events)

		assert.Equal(t, AlertOrange, got.Level)
		require.Len(t, got.TriggeringEvents, 1)
		assert.Equal(t, "o", got.TriggeringEvents[0].ID)
	})

	t.Run("all carriers of the winning level surface", func(t *testing.T) {
		events := []Event{
			alertEvt("r1", AlertRed, base),
			alertEvt("y", AlertYellow, base),
			alertEvt("r2", AlertRed, base.Add(time.Hour)),
		}

		got := ConsolidateAlerts(events)

		assert.Equal(t, AlertRed, got.Level)
		assert.ElementsMatch(t, []string{"r1", "r2"}, eventIDs(got.TriggeringEvents))
	})

	t.Run("green and none never surface", func(t *testing.T) {
		events := []Event{
			alertEvt("g", AlertGreen, base),
			alertEvt("n", AlertNone, base),
		}

		got := ConsolidateAlerts(events)

		assert.Equal(t, AlertNone, got.Level)
		assert.Empty(t, got.TriggeringEvents)
	})

	t.Run("empty input", func(t *testing.T) {
		got := ConsolidateAlerts(nil)
		assert.Equal(t, AlertStatus{}, got)
	})
}

func TestDetectTsunami(t *testing.T) {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("most recent flagged event triggers", func(t *testing.T) {
		older := evt("older", 6.0, base)
		older.Tsunami = true
		newer := evt("newer", 5.5, base.Add(2*time.Hour))
		newer.Tsunami = true
		plain := evt("plain", 7.0, base.Add(3*time.Hour))

		got := DetectTsunami([]Event{older, plain, newer})

		assert.True(t, got.Warning)
		require.NotNil(t, got.TriggeringEvent)
		assert.Equal(t, "newer", got.TriggeringEvent.ID)
	})

	t.Run("no flags means no warning", func(t *testing.T) {
		got := DetectTsunami([]Event{evt("a", 8.0, base)})

		assert.False(t, got.Warning)
		assert.Nil(t, got.TriggeringEvent)
	})

	t.Run("independent of alert level", func(t *testing.T) {
		e := alertEvt("quiet", AlertNone, base)
		e.Tsunami = true

		got := DetectTsunami([]Event{e})

		assert.True(t, got.Warning)
	})
}
