package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/ev-stations-api/internal/geo"
	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/ocm"
)

var londonCity = &models.City{
	Slug:     "london",
	Name:     "London",
	Country:  "United Kingdom",
	Location: geo.Coordinate{Lat: 51.5072, Lng: -0.1276},
	RadiusKm: 20,
}

func TestCityCache_Stations(t *testing.T) {
	f := newFixture(t, Options{Production: true})
	cache := NewCityCache(f.resolver, time.Minute)

	first, err := cache.Stations(context.Background(), londonCity)
	require.NoError(t, err)
	second, err := cache.Stations(context.Background(), londonCity)
	require.NoError(t, err)

	assert.Same(t, first, second)
	require.Len(t, f.provider.calls, 1)
	assert.Equal(t, 20.0, f.provider.calls[0].radiusKm)
	assert.Equal(t, CityStationsLimit, f.provider.calls[0].limit)
	assert.Equal(t, SourceLive, first.Source)
	assert.Len(t, first.Stations, 3)
}

func TestCityCache_FailuresAreNotCached(t *testing.T) {
	f := newFixture(t, Options{Production: true})
	cache := NewCityCache(f.resolver, time.Minute)

	f.provider.err = &ocm.ProviderError{StatusCode: 500, Status: "500 Internal Server Error"}
	_, err := cache.Stations(context.Background(), londonCity)
	require.Error(t, err)

	f.provider.err = nil
	result, err := cache.Stations(context.Background(), londonCity)
	require.NoError(t, err)
	assert.Len(t, result.Stations, 3)
	assert.Len(t, f.provider.calls, 2)
}

func TestCityCache_Warm(t *testing.T) {
	f := newFixture(t, Options{Production: true})
	cache := NewCityCache(f.resolver, time.Minute)

	paris := &models.City{Slug: "paris", Location: geo.Coordinate{Lat: 48.8566, Lng: 2.3522}, RadiusKm: 20}
	warmed, err := cache.Warm(context.Background(), []*models.City{londonCity, paris})
	require.NoError(t, err)
	assert.Equal(t, 2, warmed)
	assert.Len(t, f.provider.calls, 2)

	// Served from the warmed entries
	_, err = cache.Stations(context.Background(), londonCity)
	require.NoError(t, err)
	assert.Len(t, f.provider.calls, 2)

	// Refresh replaces the entry
	f.provider.records = nil
	warmed, err = cache.Warm(context.Background(), []*models.City{londonCity})
	require.NoError(t, err)
	assert.Equal(t, 1, warmed)
	result, err := cache.Stations(context.Background(), londonCity)
	require.NoError(t, err)
	assert.Empty(t, result.Stations)
}

func TestCityCache_WarmReportsFailures(t *testing.T) {
	f := newFixture(t, Options{Production: true})
	cache := NewCityCache(f.resolver, time.Minute)
	f.provider.err = &ocm.ProviderError{StatusCode: 429, Status: "429 Too Many Requests"}

	warmed, err := cache.Warm(context.Background(), []*models.City{londonCity})
	assert.Zero(t, warmed)
	assert.ErrorContains(t, err, "city london")
}

func TestCityCache_WarmStopsWhenCancelled(t *testing.T) {
	f := newFixture(t, Options{Production: true})
	cache := NewCityCache(f.resolver, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	warmed, err := cache.Warm(ctx, []*models.City{londonCity})
	assert.Zero(t, warmed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.provider.calls)
}

type blockingProvider struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func (p *blockingProvider) FetchNear(ctx context.Context, _ geo.Coordinate, _ float64, _ int) ([]models.OCMRecord, error) {
	p.calls.Add(1)
	p.once.Do(func() { close(p.started) })
	select {
	case <-ctx.Done():
		return nil, &ocm.ProviderError{Err: ctx.Err()}
	case <-p.release:
		return londonRecords(), nil
	}
}

func TestCityCache_SharedLookupSurvivesCancelledCaller(t *testing.T) {
	f := newFixture(t, Options{Production: true})
	provider := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
	f.resolver.stations = provider
	cache := NewCityCache(f.resolver, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	var first *Result
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = cache.Stations(ctx, londonCity)
	}()

	<-provider.started
	cancel()
	close(provider.release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Len(t, first.Stations, 3)

	second, err := cache.Stations(context.Background(), londonCity)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), provider.calls.Load())
}
