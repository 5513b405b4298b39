package models

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rm-hull/ev-stations-api/internal/geo"
)

const UnknownStationName = "Unknown Station"

// Station is the provider-agnostic shape returned to clients.
type Station struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	City     string   `json:"city,omitempty"`
	Country  string   `json:"country,omitempty"`
	Power    string   `json:"power,omitempty"`
	Network  string   `json:"network,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Distance *float64 `json:"distance,omitempty"` // km from the resolved origin
	MapsURL  string   `json:"mapsUrl,omitempty"`
}

// Coordinate returns the station position, if both components are known.
func (s *Station) Coordinate() (geo.Coordinate, bool) {
	return geo.FromPointers(s.Lat, s.Lng)
}

const googleMapsSearch = "https://www.google.com/maps/search/?api=1&query="

// MapsURL links to the station in Google Maps: by position when known, otherwise
// by a free-text query made of name, address and city.
func MapsURL(s *Station) string {
	if s.Lat != nil && s.Lng != nil {
		return googleMapsSearch + strconv.FormatFloat(*s.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(*s.Lng, 'f', -1, 64)
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{s.Name, s.Address, s.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return googleMapsSearch + url.QueryEscape(strings.Join(parts, ", "))
}
