package ocm

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rm-hull/ev-stations-api/internal/geo"
	"github.com/rm-hull/ev-stations-api/internal/models"
	"github.com/rm-hull/ev-stations-api/internal/upstream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProviderError is returned for any failed POI fetch: a non-2xx status, a
// timeout, an open circuit or an unreadable body.
type ProviderError struct {
	URL        string
	Status     string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("charging station provider timed out: %s", e.URL)
	case e.StatusCode != 0:
		return fmt.Sprintf("charging station provider responded with %s", e.Status)
	default:
		return fmt.Sprintf("charging station provider unavailable: %v", e.Err)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type StationProvider interface {
	FetchNear(ctx context.Context, origin geo.Coordinate, radiusKm float64, limit int) ([]models.OCMRecord, error)
}

type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration

	HTTPClient *upstream.Client
}

type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	timeout   time.Duration
	client    *upstream.Client
}

func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = upstream.NewClient(upstream.DefaultConfig("openchargemap"))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if cfg.APIKey == "" {
		log.Warn().Msg("no Open Charge Map API key configured, requests will be rate limited")
	}

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		client:    client,
	}
}

func (c *Client) Client() *upstream.Client {
	return c.client
}

// FetchNear returns the raw POI records within radiusKm of origin. The whole
// call, retries included, is bounded by the configured timeout.
func (c *Client) FetchNear(ctx context.Context, origin geo.Coordinate, radiusKm float64, limit int) ([]models.OCMRecord, error) {
	ctx, span := otel.Tracer("ocm").Start(ctx, "ocm.poi")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("ocm.latitude", origin.Lat),
		attribute.Float64("ocm.longitude", origin.Lng),
		attribute.Float64("ocm.distance_km", radiusKm),
		attribute.Int("ocm.max_results", limit),
	)

	records, err := c.fetch(ctx, origin, radiusKm, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("ocm.records", len(records)))
	return records, nil
}

func (c *Client) fetch(ctx context.Context, origin geo.Coordinate, radiusKm float64, limit int) ([]models.OCMRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.poiURL(origin, radiusKm, limit)
	redacted := c.poiURL(origin, radiusKm, limit, "key")

	log.Printf("GET %s", redacted)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			URL:     redacted,
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	if resp.StatusCode > 299 {
		return nil, &ProviderError{URL: redacted, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	var records []models.OCMRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &ProviderError{
			URL:     redacted,
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     errors.Wrap(err, "failed to unmarshal response"),
		}
	}

	return records, nil
}

func (c *Client) poiURL(origin geo.Coordinate, radiusKm float64, limit int, redact ...string) string {
	params := neturl.Values{}
	params.Set("output", "json")
	params.Set("compact", "false")
	params.Set("verbose", "false")
	params.Set("latitude", strconv.FormatFloat(origin.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(origin.Lng, 'f', -1, 64))
	params.Set("distance", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	params.Set("distanceunit", "KM")
	params.Set("maxresults", strconv.Itoa(limit))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	for _, key := range redact {
		if params.Has(key) {
			params.Set(key, "REDACTED")
		}
	}
	return fmt.Sprintf("%s/poi/?%s", c.baseURL, params.Encode())
}
