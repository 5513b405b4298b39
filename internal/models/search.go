package models

import "github.com/rm-hull/ev-stations-api/internal/geo"

type ErrorMessage struct {
	Message string `json:"message"`
}

type StationStatistics struct {
	Count               int            `json:"count"`
	NearestKm           *float64       `json:"nearestKm,omitempty"`
	FarthestKm          *float64       `json:"farthestKm,omitempty"`
	AverageDistanceKm   *float64       `json:"averageDistanceKm,omitempty"`
	MaxPowerKW          *float64       `json:"maxPowerKW,omitempty"`
	CurrentDistribution map[string]int `json:"currentDistribution"`
	NetworkDistribution map[string]int `json:"networkDistribution"`
}

type StationsResponse struct {
	Stations    []Station          `json:"stations"`
	Error       *ErrorMessage      `json:"error,omitempty"`
	Origin      *geo.Coordinate    `json:"origin,omitempty"`
	RadiusKm    *float64           `json:"radiusKm,omitempty"`
	Source      string             `json:"source,omitempty"`
	Statistics  *StationStatistics `json:"statistics,omitempty"`
	Attribution []string           `json:"attribution,omitempty"`
}

type CitiesResponse struct {
	Cities []*City `json:"cities"`
}
