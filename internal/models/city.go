package models

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/ev-stations-api/internal/geo"
)

const DefaultCityRadiusKm = 20.0

type City struct {
	Slug     string         `json:"slug"`
	Name     string         `json:"name"`
	Country  string         `json:"country"`
	Location geo.Coordinate `json:"location"`
	RadiusKm float64        `json:"radiusKm"`
}

// CityFromCSV maps a `slug,name,country,lat,lng[,radius_km]` row.
func CityFromCSV(record, headers []string) (*City, error) {
	if len(record) < 5 {
		return nil, errors.Newf("expected at least 5 fields, got %d", len(record))
	}

	lat, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid latitude for %s", record[0])
	}
	lng, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid longitude for %s", record[0])
	}

	city := &City{
		Slug:     record[0],
		Name:     record[1],
		Country:  record[2],
		Location: geo.Coordinate{Lat: lat, Lng: lng},
		RadiusKm: DefaultCityRadiusKm,
	}
	if !city.Location.Valid() {
		return nil, errors.Newf("coordinates out of range for %s", city.Slug)
	}

	if len(record) >= 6 && record[5] != "" {
		radius, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid radius for %s", city.Slug)
		}
		city.RadiusKm = radius
	}

	return city, nil
}
