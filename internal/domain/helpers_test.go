package domain

import (
	"io"
	"log/slog"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func magPtr(v float64) *float64 {
	return &v
}

func evt(id string, mag float64, t time.Time) Event {
	return Event{ID: id, Time: t, Magnitude: magPtr(mag)}
}

func evtAt(id string, mag, lat, lon float64, t time.Time) Event {
	e := evt(id, mag, t)
	e.Geo = &Geo{Lat: lat, Lon: lon}
	return e
}
