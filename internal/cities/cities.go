package cities

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/rm-hull/ev-stations-api/internal"
	"github.com/rm-hull/ev-stations-api/internal/models"
)

//go:embed cities.csv
var citiesCSV string

type Cities map[string]*models.City

func List() ([]*models.City, error) {
	arr := make([]*models.City, 0, 80)
	reader := strings.NewReader(citiesCSV)

	for record := range internal.ParseCSV(reader, true, models.CityFromCSV) {
		if record.Error != nil {
			return nil, errors.Wrapf(record.Error, "failed to load city presets (line %d)", record.LineNo)
		}
		arr = append(arr, record.Value)
	}

	return arr, nil
}

func Map() (Cities, error) {
	list, err := List()
	if err != nil {
		return nil, err
	}

	m := make(Cities, len(list))
	for _, city := range list {
		if _, ok := m[city.Slug]; ok {
			return nil, errors.Newf("duplicate key detected: %s", city.Slug)
		}
		m[city.Slug] = city
	}

	return m, nil
}

// Slugs returns the preset slugs in alphabetical order.
func (c Cities) Slugs() []string {
	slugs := make([]string, 0, len(c))
	for slug := range c {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
