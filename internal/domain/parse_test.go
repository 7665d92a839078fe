package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeed(t *testing.T) {
	t.Run("complete feature", func(t *testing.T) {
		data := []byte(`{"features":[{"id":"us7000abcd","properties":{"mag":6.2,"place":"32 km SSE of Adak, Alaska","time":1767225600000,"alert":"yellow","tsunami":1},"geometry":{"coordinates":[-176.6,51.6,35.2]}}]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		require.Len(t, events, 1)
		e := events[0]
		assert.Equal(t, "us7000abcd", e.ID)
		assert.Equal(t, time.UnixMilli(1767225600000).UTC(), e.Time)
		require.NotNil(t, e.Magnitude)
		assert.Equal(t, 6.2, *e.Magnitude)
		assert.Equal(t, "32 km SSE of Adak, Alaska", e.Place)
		assert.Equal(t, AlertYellow, e.Alert)
		assert.True(t, e.Tsunami)
		require.NotNil(t, e.Geo)
		assert.Equal(t, 51.6, e.Geo.Lat)
		assert.Equal(t, -176.6, e.Geo.Lon)
		assert.Equal(t, 35.2, e.Geo.DepthKm)
	})

	t.Run("null magnitude and alert survive as nil and none", func(t *testing.T) {
		data := []byte(`{"features":[{"id":"nc100","properties":{"mag":null,"time":1000,"alert":null,"tsunami":0},"geometry":{"coordinates":[-122.0,37.0,5.0]}}]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Nil(t, events[0].Magnitude)
		assert.Equal(t, AlertNone, events[0].Alert)
		assert.False(t, events[0].Tsunami)
	})

	t.Run("features without id or time are dropped", func(t *testing.T) {
		data := []byte(`{"features":[
			{"id":"","properties":{"time":1000},"geometry":{"coordinates":[0,0,0]}},
			{"id":"no-time","properties":{"mag":3.0},"geometry":{"coordinates":[0,0,0]}},
			{"id":"keep","properties":{"time":1000},"geometry":{"coordinates":[0,0,0]}}
		]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "keep", events[0].ID)
	})

	t.Run("short coordinates keep the event without geo", func(t *testing.T) {
		data := []byte(`{"features":[{"id":"short","properties":{"time":1000},"geometry":{"coordinates":[-122.0]}}]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Nil(t, events[0].Geo)
	})

	t.Run("null lon or lat invalidates geo", func(t *testing.T) {
		data := []byte(`{"features":[{"id":"nullgeo","properties":{"time":1000},"geometry":{"coordinates":[null,37.0,5.0]}}]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Nil(t, events[0].Geo)
	})

	t.Run("missing depth defaults to zero", func(t *testing.T) {
		data := []byte(`{"features":[{"id":"flat","properties":{"time":1000},"geometry":{"coordinates":[-122.0,37.0]}}]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		require.NotNil(t, events[0].Geo)
		assert.Zero(t, events[0].Geo.DepthKm)
	})

	t.Run("unknown alert collapses to none", func(t *testing.T) {
		data := []byte(`{"features":[{"id":"odd","properties":{"time":1000,"alert":"purple"},"geometry":{"coordinates":[0,0,0]}}]}`)

		events, err := ParseFeed(data, discardLogger())

		require.NoError(t, err)
		assert.Equal(t, AlertNone, events[0].Alert)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseFeed([]byte("{not-json"), discardLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("empty collection", func(t *testing.T) {
		events, err := ParseFeed([]byte(`{"features":[]}`), discardLogger())

		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
