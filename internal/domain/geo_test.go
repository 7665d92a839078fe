package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name        string
		a, b        Geo
		expectedKm  float64
		toleranceKm float64
	}{
		{"identical points", Geo{Lat: 35.0, Lon: -97.0}, Geo{Lat: 35.0, Lon: -97.0}, 0, 0.0001},
		{"one degree of latitude", Geo{Lat: 0, Lon: 0}, Geo{Lat: 1, Lon: 0}, 111.19, 0.1},
		{"one degree of longitude at equator", Geo{Lat: 0, Lon: 0}, Geo{Lat: 0, Lon: 1}, 111.19, 0.1},
		{"adjacent epicenters", Geo{Lat: 0, Lon: 0}, Geo{Lat: 0.001, Lon: 0.001}, 0.157, 0.01},
		{"tokyo to los angeles", Geo{Lat: 35.68, Lon: 139.69}, Geo{Lat: 34.05, Lon: -118.24}, 8815, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expectedKm, Haversine(tt.a, tt.b), tt.toleranceKm)
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Geo{Lat: 61.5, Lon: -149.9, DepthKm: 40}
	b := Geo{Lat: 19.4, Lon: -155.3, DepthKm: 8}

	// Depth never factors into the surface distance.
	assert.Equal(t, Haversine(a, b), Haversine(b, a))
	assert.InDelta(t, Haversine(a, b), Haversine(Geo{Lat: a.Lat, Lon: a.Lon}, Geo{Lat: b.Lat, Lon: b.Lon}), 0.0001)
}
