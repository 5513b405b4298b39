package internal

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	ProviderOCM  = "ocm"
	ProviderDemo = "demo"

	EnvProduction  = "production"
	EnvDevelopment = "development"

	DefaultUserAgent       = "EVMapFinder/1.0 (+https://www.evmapfinder.com)"
	DefaultGeocoderURL     = "https://nominatim.openstreetmap.org"
	DefaultOCMURL          = "https://api.openchargemap.io/v3"
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultGeocodeCacheTTL = 24 * time.Hour
	DefaultCityCacheTTL    = time.Hour
)

var ATTRIBUTION = []string{
	"Charging station data © Open Charge Map contributors, CC BY 4.0 (https://openchargemap.org)",
	"Geocoding © OpenStreetMap contributors, ODbL, via Nominatim (https://nominatim.org)",
}

type Config struct {
	Provider        string
	OCMAPIKey       string
	Environment     string
	RegionRouting   bool
	UpstreamTimeout time.Duration
	GeocoderURL     string
	OCMURL          string
	UserAgent       string
	GeocodeCacheTTL time.Duration
	CityCacheTTL    time.Duration
	OtelEnabled     bool
	OtelEndpoint    string
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment != EnvDevelopment
}

// ConfigFromEnv reads the configuration from the process environment, falling
// back to defaults for anything unset.
func ConfigFromEnv() (*Config, error) {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Provider:        strings.ToLower(stringOr(getenv("STATIONS_PROVIDER"), ProviderOCM)),
		OCMAPIKey:       strings.TrimSpace(getenv("OPEN_CHARGE_MAP_API_KEY")),
		Environment:     strings.ToLower(stringOr(getenv("APP_ENV"), EnvProduction)),
		GeocoderURL:     strings.TrimSuffix(stringOr(getenv("GEOCODER_URL"), DefaultGeocoderURL), "/"),
		OCMURL:          strings.TrimSuffix(stringOr(getenv("OCM_URL"), DefaultOCMURL), "/"),
		UserAgent:       stringOr(getenv("USER_AGENT"), DefaultUserAgent),
		OtelEndpoint:    stringOr(getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "localhost:4317"),
		RegionRouting:   true,
		UpstreamTimeout: DefaultUpstreamTimeout,
		GeocodeCacheTTL: DefaultGeocodeCacheTTL,
		CityCacheTTL:    DefaultCityCacheTTL,
	}

	switch cfg.Provider {
	case ProviderOCM, ProviderDemo:
	default:
		return nil, errors.Newf("unsupported STATIONS_PROVIDER: %q", cfg.Provider)
	}

	switch cfg.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		return nil, errors.Newf("unsupported APP_ENV: %q", cfg.Environment)
	}

	var err error
	if cfg.RegionRouting, err = boolOr(getenv("REGION_ROUTING"), true); err != nil {
		return nil, errors.Wrap(err, "REGION_ROUTING")
	}
	if cfg.OtelEnabled, err = boolOr(getenv("OTEL_ENABLED"), false); err != nil {
		return nil, errors.Wrap(err, "OTEL_ENABLED")
	}
	if cfg.UpstreamTimeout, err = durationOr(getenv("UPSTREAM_TIMEOUT"), DefaultUpstreamTimeout); err != nil {
		return nil, errors.Wrap(err, "UPSTREAM_TIMEOUT")
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	if cfg.GeocodeCacheTTL, err = durationOr(getenv("GEOCODE_CACHE_TTL"), DefaultGeocodeCacheTTL); err != nil {
		return nil, errors.Wrap(err, "GEOCODE_CACHE_TTL")
	}
	if cfg.CityCacheTTL, err = durationOr(getenv("CITY_CACHE_TTL"), DefaultCityCacheTTL); err != nil {
		return nil, errors.Wrap(err, "CITY_CACHE_TTL")
	}

	return cfg, nil
}

func stringOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func boolOr(value string, fallback bool) (bool, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseBool(strings.TrimSpace(value))
}

func durationOr(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(strings.TrimSpace(value))
}
