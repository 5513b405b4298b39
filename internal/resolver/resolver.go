package resolver

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rm-hull/ev-stations-api/internal"
	"github.com/rm-hull/ev-stations-api/internal/datasets"
	"github.com/rm-hull/ev-stations-api/internal/geo"
	"github.com/rm-hull/ev-stations-api/internal/geocoder"
	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/ocm"
	"github.com/rm-hull/ev-stations-api/internal/region"
	"github.com/rm-hull/ev-stations-api/internal/stats"
)

const (
	DefaultLimit    = 200
	MaxLimit        = 500
	DefaultRadiusKm = 15.0
	MinRadiusKm     = 1.0
	MaxRadiusKm     = 50.0
)

type Source string

const (
	SourceNone    Source = "none"
	SourceLive    Source = "live"
	SourceBundled Source = "bundled"
	SourceDemo    Source = "demo"
)

var ErrProviderUnavailable = errors.New("charging station provider unavailable")

type Request struct {
	Lat      *float64
	Lng      *float64
	Search   string
	Limit    int
	RadiusKm *float64
	Stats    bool
}

type Result struct {
	Stations   []models.Station
	Message    string
	Source     Source
	Origin     *geo.Coordinate
	RadiusKm   *float64
	Statistics *models.StationStatistics
}

type Options struct {
	// Provider is internal.ProviderOCM or internal.ProviderDemo.
	Provider   string
	Production bool

	Geocoder geocoder.Geocoder
	Stations ocm.StationProvider
	Router   *region.Router
	Demo     *datasets.Dataset
}

type Resolver struct {
	provider   string
	production bool
	geocoder   geocoder.Geocoder
	stations   ocm.StationProvider
	router     *region.Router
	demo       *datasets.Dataset
}

func New(opts Options) *Resolver {
	provider := opts.Provider
	if provider == "" {
		provider = internal.ProviderOCM
	}
	return &Resolver{
		provider:   provider,
		production: opts.Production,
		geocoder:   opts.Geocoder,
		stations:   opts.Stations,
		router:     opts.Router,
		demo:       opts.Demo,
	}
}

// EffectiveLimit maps a missing or non-positive limit to DefaultLimit and caps
// it at MaxLimit.
func EffectiveLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// EffectiveRadiusKm clamps the requested radius into [MinRadiusKm, MaxRadiusKm].
func EffectiveRadiusKm(radiusKm *float64) float64 {
	if radiusKm == nil || math.IsNaN(*radiusKm) {
		return DefaultRadiusKm
	}
	return math.Min(math.Max(*radiusKm, MinRadiusKm), MaxRadiusKm)
}

func NotFoundMessage(search string) string {
	return fmt.Sprintf("Could not find location for: %s", search)
}

// Resolve runs one request through the pipeline: locate the origin, pick a
// data source, then compute distances, filter, sort and clamp. Only a provider
// failure in production is returned as an error.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	ctx, span := otel.Tracer("resolver").Start(ctx, "resolver.Resolve")
	defer span.End()

	result, err := r.resolve(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("resolver.source", string(result.Source)),
		attribute.Int("resolver.stations", len(result.Stations)),
	)
	resolutionsTotal.WithLabelValues(string(result.Source)).Inc()

	for i := range result.Stations {
		result.Stations[i].MapsURL = models.MapsURL(&result.Stations[i])
	}
	if req.Stats {
		result.Statistics = stats.Derive(result.Stations)
	}
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, req Request) (*Result, error) {
	search := strings.TrimSpace(req.Search)
	origin, hasOrigin := geo.FromPointers(req.Lat, req.Lng)

	if !hasOrigin {
		if search == "" {
			return &Result{Stations: []models.Station{}, Source: SourceNone}, nil
		}

		coord, err := r.geocode(ctx, search)
		if err != nil {
			return &Result{
				Stations: []models.Station{},
				Message:  NotFoundMessage(search),
				Source:   SourceNone,
			}, nil
		}
		origin = coord
	}

	limit := EffectiveLimit(req.Limit)
	radiusKm := EffectiveRadiusKm(req.RadiusKm)
	result := &Result{Origin: &origin, RadiusKm: &radiusKm}

	if r.provider == internal.ProviderDemo {
		result.Source = SourceDemo
		result.Stations = finish(r.demoStations(), origin, limit, radiusKm)
		return result, nil
	}

	if decision := r.router.Route(origin); decision.Source == region.SourceBundled {
		log.Debug().Str("region", decision.Region).Stringer("origin", origin).Msg("serving bundled dataset")
		result.Source = SourceBundled
		result.Stations = finish(decision.Dataset.Stations(), origin, limit, radiusKm)
		return result, nil
	}

	records, err := r.fetch(ctx, origin, radiusKm, limit)
	if err != nil {
		if r.production {
			providerFailuresTotal.WithLabelValues("error").Inc()
			return nil, errors.Mark(errors.Wrap(err, "failed to fetch stations"), ErrProviderUnavailable)
		}

		providerFailuresTotal.WithLabelValues("fallback").Inc()
		log.Warn().Err(err).Msg("provider failed, substituting demo stations")
		result.Source = SourceDemo
		result.Stations = finish(r.demoStations(), origin, limit, radiusKm)
		return result, nil
	}

	result.Source = SourceLive
	result.Stations = finish(ocm.NormalizeAll(records), origin, limit, radiusKm)
	return result, nil
}

func (r *Resolver) geocode(ctx context.Context, search string) (geo.Coordinate, error) {
	if r.geocoder == nil {
		geocodeTotal.WithLabelValues("not_found").Inc()
		return geo.Coordinate{}, geocoder.ErrNotFound
	}

	coord, err := r.geocoder.Resolve(ctx, search)
	if err != nil {
		geocodeTotal.WithLabelValues("not_found").Inc()
		log.Info().Err(err).Str("search", search).Msg("location not found")
		return geo.Coordinate{}, err
	}

	geocodeTotal.WithLabelValues("found").Inc()
	return coord, nil
}

func (r *Resolver) fetch(ctx context.Context, origin geo.Coordinate, radiusKm float64, limit int) ([]models.OCMRecord, error) {
	if r.stations == nil {
		return nil, &ocm.ProviderError{Err: errors.New("no station provider configured")}
	}
	return r.stations.FetchNear(ctx, origin, radiusKm, limit)
}

func (r *Resolver) demoStations() []models.Station {
	if r.demo == nil {
		return []models.Station{}
	}
	return r.demo.Stations()
}

// finish computes distances from origin, keeps stations with a known position
// within radiusKm, sorts them nearest first and clamps to limit. Every data
// source goes through it.
func finish(stations []models.Station, origin geo.Coordinate, limit int, radiusKm float64) []models.Station {
	filtered := make([]models.Station, 0, len(stations))
	for _, station := range stations {
		coord, ok := station.Coordinate()
		if !ok {
			continue
		}
		d := origin.DistanceKm(coord)
		if math.IsInf(d, 0) || math.IsNaN(d) || d > radiusKm {
			continue
		}
		station.Distance = &d
		filtered = append(filtered, station)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return *filtered[i].Distance < *filtered[j].Distance
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}
