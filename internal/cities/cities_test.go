package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/ev-stations-api/internal/models"
)

func TestList(t *testing.T) {
	list, err := List()
	require.NoError(t, err)
	assert.Len(t, list, 74)

	first := list[0]
	assert.Equal(t, "tel-aviv", first.Slug)
	assert.Equal(t, "Tel Aviv", first.Name)
	assert.Equal(t, "Israel", first.Country)
	assert.Equal(t, 32.0853, first.Location.Lat)
	assert.Equal(t, 34.7818, first.Location.Lng)
	assert.Equal(t, 20.0, first.RadiusKm)

	for _, city := range list {
		assert.True(t, city.Location.Valid(), city.Slug)
		assert.Positive(t, city.RadiusKm, city.Slug)
	}
}

func TestMap(t *testing.T) {
	m, err := Map()
	require.NoError(t, err)

	beerSheva, ok := m["beer-sheva"]
	require.True(t, ok)
	assert.Equal(t, "Be'er Sheva", beerSheva.Name)
	assert.Equal(t, 25.0, beerSheva.RadiusKm)

	london, ok := m["london"]
	require.True(t, ok)
	assert.Equal(t, models.DefaultCityRadiusKm, london.RadiusKm)

	sydney := m["sydney"]
	require.NotNil(t, sydney)
	assert.Negative(t, sydney.Location.Lat)

	_, ok = m["atlantis"]
	assert.False(t, ok)
}

func TestSlugs(t *testing.T) {
	m := Cities{
		"paris":  {Slug: "paris"},
		"berlin": {Slug: "berlin"},
		"oslo":   {Slug: "oslo"},
	}
	assert.Equal(t, []string{"berlin", "oslo", "paris"}, m.Slugs())
}
