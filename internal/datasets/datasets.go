package datasets

import (
	"embed"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/rm-hull/ev-stations-api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed *.json
var files embed.FS

const (
	DemoFile   = "demo_stations.json"
	IsraelFile = "israel_stations.json"
)

// Dataset is a read-only list of stations loaded once at start-up. It is safe
// for concurrent use since nothing ever writes to it after Load.
type Dataset struct {
	name     string
	stations []models.Station
}

func (d *Dataset) Name() string {
	return d.name
}

func (d *Dataset) Len() int {
	return len(d.stations)
}

// Stations returns a copy, so callers may set distances or map links freely.
func (d *Dataset) Stations() []models.Station {
	result := make([]models.Station, len(d.stations))
	for i, station := range d.stations {
		result[i] = clone(station)
	}
	return result
}

func clone(station models.Station) models.Station {
	station.Lat = copyFloat(station.Lat)
	station.Lng = copyFloat(station.Lng)
	station.Distance = nil
	return station
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Load reads one of the embedded dataset files.
func Load(filename string) (*Dataset, error) {
	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset %s", filename)
	}
	return Parse(filename, data)
}

func Parse(name string, data []byte) (*Dataset, error) {
	var stations []models.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal dataset %s", name)
	}

	for i := range stations {
		if stations[i].ID == "" {
			return nil, errors.Newf("dataset %s: station at index %d has no id", name, i)
		}
		if stations[i].Name == "" {
			stations[i].Name = models.UnknownStationName
		}
	}

	return &Dataset{name: name, stations: stations}, nil
}

func Demo() (*Dataset, error) {
	return Load(DemoFile)
}
