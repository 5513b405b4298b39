package stats

import (
	"math"
	"strings"

	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/ocm"
)

const UnknownCurrent = "unknown"

func Derive(stations []models.Station) *models.StationStatistics {
	stats := &models.StationStatistics{
		Count:               len(stations),
		CurrentDistribution: make(map[string]int),
		NetworkDistribution: make(map[string]int),
	}

	distances := make([]float64, 0, len(stations))
	maxPower := 0.0

	for _, station := range stations {
		if station.Distance != nil {
			distances = append(distances, *station.Distance)
		}

		// Power labels are "<AC|DC> <kW>kW"
		current := UnknownCurrent
		if prefix, _, found := strings.Cut(station.Power, " "); found {
			current = prefix
		}
		stats.CurrentDistribution[current]++

		if kw, ok := ocm.MaxPowerKW(station.Power); ok && kw > maxPower {
			maxPower = kw
		}

		if station.Network != "" {
			stats.NetworkDistribution[station.Network]++
		}
	}

	if maxPower > 0 {
		stats.MaxPowerKW = &maxPower
	}

	if len(distances) == 0 {
		return stats
	}

	nearest := distances[0]
	farthest := distances[0]
	sum := 0.0
	for _, d := range distances {
		if d < nearest {
			nearest = d
		}
		if d > farthest {
			farthest = d
		}
		sum += d
	}
	avg := math.Round(sum/float64(len(distances))*10) / 10

	stats.NearestKm = &nearest
	stats.FarthestKm = &farthest
	stats.AverageDistanceKm = &avg

	return stats
}
