package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/ev-stations-api/internal"
	"github.com/rm-hull/ev-stations-api/internal/cities"
	"github.com/rm-hull/ev-stations-api/internal/datasets"
	"github.com/rm-hull/ev-stations-api/internal/geocoder"
	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/ocm"
	"github.com/rm-hull/ev-stations-api/internal/region"
	"github.com/rm-hull/ev-stations-api/internal/resolver"
	"github.com/rm-hull/ev-stations-api/internal/telemetry"
	"github.com/rm-hull/ev-stations-api/internal/upstream"
)

const serviceName = "ev-stations-api"

var Version = "dev"

type services struct {
	config    *internal.Config
	resolver  *resolver.Resolver
	cityCache *resolver.CityCache
	cities    cities.Cities
	cityList  []*models.City
	checks    []checks.Check
	telemetry *telemetry.Provider
}

func (svc *services) warmCities(ctx context.Context) (int, error) {
	return svc.cityCache.Warm(ctx, svc.cityList)
}

func (svc *services) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), svc.config.UpstreamTimeout)
	defer cancel()
	if err := svc.telemetry.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown telemetry")
	}
}

func setupLogging(debug bool) {
	var out io.Writer = os.Stdout
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()
}

// bootstrap initialises shared resources used by both the API server and warm
// commands: configuration, upstream clients, datasets and the resolver.
func bootstrap(debug bool) (*services, error) {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}

	setupLogging(debug)

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	cfg, err := internal.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tp, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OtelEndpoint,
		Enabled:        cfg.OtelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	geocoderCfg := upstream.DefaultConfig("nominatim")
	geocoderCfg.MaxRetries = 0
	geocoderCfg.AttemptTimeout = cfg.UpstreamTimeout
	nominatim := geocoder.NewNominatim(geocoder.Config{
		BaseURL:    cfg.GeocoderURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.UpstreamTimeout,
		CacheTTL:   cfg.GeocodeCacheTTL,
		HTTPClient: upstream.NewClient(geocoderCfg),
	})

	ocmCfg := upstream.DefaultConfig("openchargemap")
	ocmCfg.AttemptTimeout = cfg.UpstreamTimeout
	provider := ocm.NewClient(ocm.Config{
		BaseURL:    cfg.OCMURL,
		APIKey:     cfg.OCMAPIKey,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.UpstreamTimeout,
		HTTPClient: upstream.NewClient(ocmCfg),
	})

	router, err := region.NewDefaultRouter(cfg.RegionRouting)
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}

	demo, err := datasets.Demo()
	if err != nil {
		return nil, fmt.Errorf("failed to load demo dataset: %w", err)
	}

	cityList, err := cities.List()
	if err != nil {
		return nil, err
	}
	cityMap, err := cities.Map()
	if err != nil {
		return nil, err
	}

	res := resolver.New(resolver.Options{
		Provider:   cfg.Provider,
		Production: cfg.IsProduction(),
		Geocoder:   nominatim,
		Stations:   provider,
		Router:     router,
		Demo:       demo,
	})

	log.Info().
		Str("provider", cfg.Provider).
		Str("environment", cfg.Environment).
		Bool("region_routing", router.Enabled()).
		Strs("regions", router.Regions()).
		Int("demo_stations", demo.Len()).
		Strs("cities", cityMap.Slugs()).
		Msg("station resolver ready")

	return &services{
		config:    cfg,
		resolver:  res,
		cityCache: resolver.NewCityCache(res, cfg.CityCacheTTL),
		cities:    cityMap,
		cityList:  cityList,
		checks:    []checks.Check{nominatim.Client().Check(), provider.Client().Check()},
		telemetry: tp,
	}, nil
}
