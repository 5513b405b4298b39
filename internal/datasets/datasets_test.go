package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, filename := range []string{DemoFile, IsraelFile} {
		t.Run(filename, func(t *testing.T) {
			dataset, err := Load(filename)
			require.NoError(t, err)
			assert.Equal(t, filename, dataset.Name())
			assert.NotZero(t, dataset.Len())

			seen := make(map[string]bool)
			for _, station := range dataset.Stations() {
				assert.NotEmpty(t, station.Name)
				assert.False(t, seen[station.ID], "duplicate id %s", station.ID)
				seen[station.ID] = true
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("nowhere.json")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	dataset, err := Parse("inline", []byte(`[{"id":"a","lat":1.5,"lng":2.5},{"id":"b","name":"B"}]`))
	require.NoError(t, err)

	stations := dataset.Stations()
	require.Len(t, stations, 2)
	assert.Equal(t, "Unknown Station", stations[0].Name)
	assert.Equal(t, 1.5, *stations[0].Lat)
	assert.Nil(t, stations[1].Lat)

	_, err = Parse("bad", []byte(`{"id":"a"}`))
	assert.Error(t, err)

	_, err = Parse("no-id", []byte(`[{"name":"x"}]`))
	assert.ErrorContains(t, err, "has no id")
}

func TestStations_ReturnsCopies(t *testing.T) {
	dataset, err := Demo()
	require.NoError(t, err)

	first := dataset.Stations()
	distance := 3.2
	first[0].Distance = &distance
	first[0].Name = "changed"
	*first[0].Lat = 0

	second := dataset.Stations()
	assert.Nil(t, second[0].Distance)
	assert.NotEqual(t, "changed", second[0].Name)
	assert.NotZero(t, *second[0].Lat)
}
