package ocm

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rm-hull/ev-stations-api/internal/models"
)

// OCM current type ids.
const (
	CurrentTypeACSinglePhase = 10
	CurrentTypeACThreePhase  = 20
	CurrentTypeDC            = 30
)

func isAC(conn models.OCMConnection) bool {
	if conn.CurrentTypeID == nil {
		return false
	}
	return *conn.CurrentTypeID == CurrentTypeACSinglePhase || *conn.CurrentTypeID == CurrentTypeACThreePhase
}

// PowerLabel formats the highest positive connector rating as "<AC|DC> <kW>kW".
// The AC prefix is used when any connector is AC, not necessarily the one with
// the highest rating.
func PowerLabel(connections []models.OCMConnection) (string, bool) {
	maxKW := 0.0
	hasAC := false
	for _, conn := range connections {
		if conn.PowerKW != nil && *conn.PowerKW > maxKW {
			maxKW = *conn.PowerKW
		}
		if isAC(conn) {
			hasAC = true
		}
	}
	if maxKW <= 0 {
		return "", false
	}

	current := "DC"
	if hasAC {
		current = "AC"
	}
	return current + " " + strconv.FormatFloat(maxKW, 'f', -1, 64) + "kW", true
}

// MaxPowerKW parses the wattage back out of a label made by PowerLabel.
func MaxPowerKW(label string) (float64, bool) {
	_, kw, found := strings.Cut(label, " ")
	if !found {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(kw, "kW"), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Normalize maps a raw record onto a Station without mutating the input.
func Normalize(record models.OCMRecord) models.Station {
	station := models.Station{
		Name: models.UnknownStationName,
	}

	switch {
	case record.ID != nil:
		station.ID = strconv.FormatInt(*record.ID, 10)
	case deref(record.UUID) != "":
		station.ID = deref(record.UUID)
	default:
		station.ID = uuid.NewString()
	}

	if addr := record.AddressInfo; addr != nil {
		if title := deref(addr.Title); title != "" {
			station.Name = title
		}
		station.Address = deref(addr.AddressLine1)
		station.City = deref(addr.Town)
		if addr.Country != nil {
			station.Country = deref(addr.Country.Title)
		}
		if addr.Latitude != nil {
			lat := *addr.Latitude
			station.Lat = &lat
		}
		if addr.Longitude != nil {
			lng := *addr.Longitude
			station.Lng = &lng
		}
	}

	if power, ok := PowerLabel(record.Connections); ok {
		station.Power = power
	}

	if op := record.OperatorInfo; op != nil {
		station.Network = deref(op.Title)
	}

	return station
}

func NormalizeAll(records []models.OCMRecord) []models.Station {
	stations := make([]models.Station, 0, len(records))
	for _, record := range records {
		stations = append(stations, Normalize(record))
	}
	return stations
}
