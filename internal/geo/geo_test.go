package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	p := Point{Latitude: 40.0, Longitude: -74.0}
	assert.Equal(t, 0.0, DistanceMeters(p, p))
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	points := []Point{
		{Latitude: 40.0, Longitude: -74.0},
		{Latitude: 35.6812, Longitude: 139.7671},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 0, Longitude: 179.9},
		{Latitude: 0, Longitude: -179.9},
	}

	for _, p := range points {
		for _, q := range points {
			assert.Equal(t, DistanceMeters(p, q), DistanceMeters(q, p))
		}
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	// One degree of latitude along a meridian
	d := DistanceMeters(Point{Latitude: 0, Longitude: 0}, Point{Latitude: 1, Longitude: 0})
	assert.InDelta(t, 111195.0, d, 1.0)

	// Tokyo Station to Osaka Station, roughly 403 km
	tokyo := Point{Latitude: 35.6812, Longitude: 139.7671}
	osaka := Point{Latitude: 34.7025, Longitude: 135.4959}
	assert.InDelta(t, 403000.0, DistanceMeters(tokyo, osaka), 2000.0)

	// Across the antimeridian is short, not half the globe
	east := Point{Latitude: 0, Longitude: 179.9}
	west := Point{Latitude: 0, Longitude: -179.9}
	assert.InDelta(t, 22239.0, DistanceMeters(east, west), 5.0)
}

func TestWithinRadius(t *testing.T) {
	site := Point{Latitude: 40.0, Longitude: -74.0}
	nearby := Point{Latitude: 40.0005, Longitude: -74.0}
	far := Point{Latitude: 40.1, Longitude: -74.0}

	tests := []struct {
		name   string
		point  Point
		radius float64
		within bool
	}{
		{"nearby", nearby, 100, true},
		{"far", far, 100, false},
		{"same point, zero radius", site, 0, true},
		{"exactly on the boundary", nearby, DistanceMeters(site, nearby), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance, within := WithinRadius(site, tt.point, tt.radius)
			assert.Equal(t, tt.within, within)
			assert.Equal(t, DistanceMeters(site, tt.point), distance)
		})
	}
}

func TestPointValidate(t *testing.T) {
	assert.NoError(t, Point{Latitude: 90, Longitude: 180}.Validate())
	assert.NoError(t, Point{Latitude: -90, Longitude: -180}.Validate())
	assert.ErrorIs(t, Point{Latitude: 90.1, Longitude: 0}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, Point{Latitude: 0, Longitude: -180.5}.Validate(), ErrInvalidCoordinates)
}
