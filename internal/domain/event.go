package domain

import (
	"context"
	"time"
)

// AlertLevel is a USGS PAGER alert color.
type AlertLevel string

// PAGER alert levels in increasing severity. AlertNone covers both a missing
// alert and the explicit "none" value some feeds emit.
const (
	AlertNone   AlertLevel = ""
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertOrange AlertLevel = "orange"
	AlertRed    AlertLevel = "red"
)

// alertRank orders elevated alerts for consolidation. Green and none rank
// zero and are never surfaced.
var alertRank = map[AlertLevel]int{
	AlertYellow: 1,
	AlertOrange: 2,
	AlertRed:    3,
}

// Elevated reports whether the level is yellow, orange, or red.
func (a AlertLevel) Elevated() bool {
	return alertRank[a] > 0
}

// Geo is a WGS-84 coordinate with hypocenter depth.
type Geo struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	DepthKm float64 `json:"depth_km"`
}

// Event is a single seismic event after boundary validation. Instances are
// immutable once produced by ParseFeed.
type Event struct {
	ID        string     `json:"id"`
	Time      time.Time  `json:"time"`
	Magnitude *float64   `json:"magnitude"` // nil for unreviewed events
	Place     string     `json:"place,omitempty"`
	Alert     AlertLevel `json:"alert,omitempty"`
	Tsunami   bool       `json:"tsunami,omitempty"`
	Geo       *Geo       `json:"geo,omitempty"` // nil when coordinates were malformed
}

// Mag returns the magnitude, treating a missing magnitude as 0.
func (e Event) Mag() float64 {
	if e.Magnitude == nil {
		return 0
	}
	return *e.Magnitude
}

// Horizon identifies an independent refresh granularity. Each horizon has its
// own polling cadence upstream and its own fields in DerivedState.
type Horizon string

const (
	HorizonShort  Horizon = "short"  // 1h and 24h windows, alerts, tsunami
	HorizonMedium Horizon = "medium" // 7d window
	HorizonLong   Horizon = "long"   // 14d and 30d windows
)

// Valid reports whether h is a known horizon.
func (h Horizon) Valid() bool {
	switch h {
	case HorizonShort, HorizonMedium, HorizonLong:
		return true
	}
	return false
}

// RawRefresh is one unprocessed feed refresh from the source topic. The
// message timestamp is the collector's fetch time and serves as "now" for
// all window math in that refresh.
type RawRefresh struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Horizon extracts the refresh horizon from the message headers.
func (r RawRefresh) Horizon() Horizon {
	return Horizon(r.Headers["horizon"])
}

// RangeCount is one magnitude histogram bucket result.
type RangeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayCount is the number of events on one UTC day.
type DayCount struct {
	Day   time.Time `json:"day"` // midnight UTC
	Count int       `json:"count"`
}

// AlertStatus is the consolidated PAGER alert view over the last 24 hours.
type AlertStatus struct {
	Level            AlertLevel `json:"level,omitempty"`
	TriggeringEvents []Event    `json:"triggering_events,omitempty"`
}

// TsunamiStatus reports whether any event in the last 24 hours carried a
// tsunami flag, and the most recent one that did.
type TsunamiStatus struct {
	Warning         bool   `json:"warning"`
	TriggeringEvent *Event `json:"triggering_event,omitempty"`
}

// NotableEvents holds the two most recent events ever observed at or above
// the major-magnitude threshold, ordered by time descending. The pointers
// never regress to nil once set, even after the qualifying events roll out
// of the raw feed's retrieval window.
type NotableEvents struct {
	Last        *Event `json:"last,omitempty"`
	Previous    *Event `json:"previous,omitempty"`
	DeltaMillis *int64 `json:"delta_ms,omitempty"` // Last.Time - Previous.Time
}

// ShortState holds the short-horizon derived fields.
type ShortState struct {
	Events1h  []Event       `json:"events_1h"`
	Events24h []Event       `json:"events_24h"`
	Alert     AlertStatus   `json:"alert"`
	Tsunami   TsunamiStatus `json:"tsunami"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// MediumState holds the medium-horizon derived fields.
type MediumState struct {
	Events7d  []Event      `json:"events_7d"`
	Histogram []RangeCount `json:"histogram"`
	Daily     []DayCount   `json:"daily"`
	Sampled   []Event      `json:"sampled"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// LongState holds the long-horizon derived fields.
type LongState struct {
	Events14d  []Event      `json:"events_14d"`
	Events30d  []Event      `json:"events_30d"`
	Histogram  []RangeCount `json:"histogram"`
	Daily      []DayCount   `json:"daily"`
	Sampled14d []Event      `json:"sampled_14d"`
	Sampled30d []Event      `json:"sampled_30d"`
	FetchedAt  time.Time    `json:"fetched_at"`
}

// DerivedState is the complete derived-view snapshot consumed by rendering
// collaborators. Each refresh produces a brand-new value; handlers replace
// only the fields their horizon owns, so concurrent readers never observe a
// partially updated snapshot.
type DerivedState struct {
	Short   ShortState    `json:"short"`
	Medium  MediumState   `json:"medium"`
	Long    LongState     `json:"long"`
	Notable NotableEvents `json:"notable"`
}

// Snapshot is a DerivedState together with the refresh that produced it,
// destined for the sink topic and websocket subscribers.
type Snapshot struct {
	Horizon    Horizon      `json:"horizon"`
	FetchedAt  time.Time    `json:"fetched_at"`
	ProducedAt time.Time    `json:"produced_at"`
	State      DerivedState `json:"state"`
}
