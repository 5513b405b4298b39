package resolver

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kofalt/go-memoize"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/ev-stations-api/internal/models"
)

const CityStationsLimit = 60

// CityCache serves preset city pages. Results are shared between callers and
// must not be modified.
type CityCache struct {
	resolver *Resolver
	cache    *memoize.Memoizer
}

func NewCityCache(resolver *Resolver, ttl time.Duration) *CityCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CityCache{
		resolver: resolver,
		cache:    memoize.NewMemoizer(ttl, 2*ttl),
	}
}

// Stations returns the cached result for city, resolving it on a miss. The
// lookup is shared with concurrent callers and is not cancelled when ctx is;
// the upstream timeouts still bound it.
func (c *CityCache) Stations(ctx context.Context, city *models.City) (*Result, error) {
	shared := context.WithoutCancel(ctx)
	value, err, cached := c.cache.Memoize(city.Slug, func() (any, error) {
		return c.resolve(shared, city)
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("city", city.Slug).Bool("cached", cached).Msg("city stations")
	return value.(*Result), nil
}

// Refresh resolves the city again and replaces any cached entry.
func (c *CityCache) Refresh(ctx context.Context, city *models.City) (*Result, error) {
	result, err := c.resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	c.cache.Storage.Set(city.Slug, result, 0)
	return result, nil
}

func (c *CityCache) resolve(ctx context.Context, city *models.City) (*Result, error) {
	lat, lng, radius := city.Location.Lat, city.Location.Lng, city.RadiusKm
	return c.resolver.Resolve(ctx, Request{
		Lat:      &lat,
		Lng:      &lng,
		Limit:    CityStationsLimit,
		RadiusKm: &radius,
	})
}

// Warm refreshes every city in turn, returning how many succeeded. Failures
// are logged and joined into the returned error.
func (c *CityCache) Warm(ctx context.Context, cities []*models.City) (int, error) {
	var errs error
	warmed := 0
	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			return warmed, errors.CombineErrors(errs, err)
		}
		if _, err := c.Refresh(ctx, city); err != nil {
			log.Warn().Err(err).Str("city", city.Slug).Msg("failed to warm city")
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "city %s", city.Slug))
			continue
		}
		warmed++
	}
	return warmed, errs
}
