package geo

import (
	"fmt"
	"math"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and inside the WGS84 range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) DistanceKm(other Coordinate) float64 {
	return DistanceKm(c.Lat, c.Lng, other.Lat, other.Lng)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// FromPointers builds a coordinate from optional components. A half-supplied
// or invalid pair yields ok == false.
func FromPointers(lat, lng *float64) (Coordinate, bool) {
	if lat == nil || lng == nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: *lat, Lng: *lng}
	return c, c.Valid()
}

type BoundingBox struct {
	MinLat float64 `yaml:"min_lat" json:"min_lat"`
	MaxLat float64 `yaml:"max_lat" json:"max_lat"`
	MinLng float64 `yaml:"min_lng" json:"min_lng"`
	MaxLng float64 `yaml:"max_lng" json:"max_lng"`
}

// Contains is inclusive on every edge.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

func (b BoundingBox) Valid() bool {
	return b.MinLat < b.MaxLat && b.MinLng < b.MaxLng &&
		Coordinate{Lat: b.MinLat, Lng: b.MinLng}.Valid() &&
		Coordinate{Lat: b.MaxLat, Lng: b.MaxLng}.Valid()
}
