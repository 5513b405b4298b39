package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Run("Identical points", func(t *testing.T) {
		for _, c := range []Coordinate{{0, 0}, {51.5072, -0.1276}, {-33.8688, 151.2093}, {90, 0}, {-90, 180}} {
			assert.Equal(t, 0.0, DistanceKm(c.Lat, c.Lng, c.Lat, c.Lng))
		}
	})

	t.Run("London to Paris", func(t *testing.T) {
		d := DistanceKm(51.5072, -0.1276, 48.8566, 2.3522)
		assert.InDelta(t, 343.5, d, 1.0)
	})

	t.Run("Symmetric", func(t *testing.T) {
		pairs := [][4]float64{
			{32.0853, 34.7818, 31.7683, 35.2137},
			{40.7128, -74.0060, 34.0522, -118.2437},
			{-37.8136, 144.9631, 59.9139, 10.7522},
		}
		for _, p := range pairs {
			assert.Equal(t, DistanceKm(p[0], p[1], p[2], p[3]), DistanceKm(p[2], p[3], p[0], p[1]))
		}
	})

	t.Run("Antipodal points", func(t *testing.T) {
		d := DistanceKm(0, 0, 0, 180)
		assert.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)

		d = DistanceKm(90, 0, -90, 0)
		assert.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)

		d = DistanceKm(45.0, 10.0, -45.0, -170.0)
		assert.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
	})

	t.Run("Never negative", func(t *testing.T) {
		for lat := -90.0; lat <= 90; lat += 15 {
			for lng := -180.0; lng <= 180; lng += 30 {
				d := DistanceKm(lat, lng, -lat, lng+180)
				assert.False(t, math.IsNaN(d))
				assert.GreaterOrEqual(t, d, 0.0)
			}
		}
	})
}

func TestCoordinate(t *testing.T) {
	assert.True(t, Coordinate{Lat: 32.08, Lng: 34.78}.Valid())
	assert.False(t, Coordinate{Lat: math.NaN(), Lng: 34.78}.Valid())
	assert.False(t, Coordinate{Lat: 32.08, Lng: math.Inf(1)}.Valid())
	assert.False(t, Coordinate{Lat: 91, Lng: 0}.Valid())
	assert.False(t, Coordinate{Lat: 0, Lng: -180.5}.Valid())

	lat, lng := 52.37, 4.90
	c, ok := FromPointers(&lat, &lng)
	assert.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 52.37, Lng: 4.90}, c)

	_, ok = FromPointers(&lat, nil)
	assert.False(t, ok)
	_, ok = FromPointers(nil, &lng)
	assert.False(t, ok)

	nan := math.NaN()
	_, ok = FromPointers(&nan, &lng)
	assert.False(t, ok)
}

func TestBoundingBox(t *testing.T) {
	israel := BoundingBox{MinLat: 29.4, MaxLat: 33.4, MinLng: 34.2, MaxLng: 35.9}
	assert.True(t, israel.Valid())

	assert.True(t, israel.Contains(Coordinate{Lat: 32.0853, Lng: 34.7818}))
	assert.True(t, israel.Contains(Coordinate{Lat: 29.4, Lng: 34.2}), "edges are inclusive")
	assert.True(t, israel.Contains(Coordinate{Lat: 33.4, Lng: 35.9}), "edges are inclusive")
	assert.False(t, israel.Contains(Coordinate{Lat: 51.5072, Lng: -0.1276}))
	assert.False(t, israel.Contains(Coordinate{Lat: 32.0, Lng: 36.0}))

	assert.False(t, BoundingBox{MinLat: 10, MaxLat: 5, MinLng: 0, MaxLng: 1}.Valid())
}
