package geocoder

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
	"github.com/kofalt/go-memoize"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rm-hull/ev-stations-api/internal/geo"
	"github.com/rm-hull/ev-stations-api/internal/upstream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound marks every outcome where no coordinate could be determined for
// the query, whatever the underlying cause.
var ErrNotFound = errors.New("location not found")

type Geocoder interface {
	Resolve(ctx context.Context, query string) (geo.Coordinate, error)
}

type Config struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration

	// CacheTTL of successful lookups; zero disables the cache.
	CacheTTL time.Duration

	HTTPClient *upstream.Client
}

type Nominatim struct {
	baseURL        string
	userAgent      string
	acceptLanguage string
	timeout        time.Duration
	client         *upstream.Client
	cache          *memoize.Memoizer
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatim(cfg Config) *Nominatim {
	client := cfg.HTTPClient
	if client == nil {
		upCfg := upstream.DefaultConfig("nominatim")
		upCfg.MaxRetries = 0
		client = upstream.NewClient(upCfg)
	}

	acceptLanguage := cfg.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = "en"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	geocoder := &Nominatim{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		acceptLanguage: acceptLanguage,
		timeout:        timeout,
		client:         client,
	}
	if cfg.CacheTTL > 0 {
		geocoder.cache = memoize.NewMemoizer(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return geocoder
}

func (n *Nominatim) Client() *upstream.Client {
	return n.client
}

// Resolve returns the single best match for a free-text place query. Any
// failure is reported as an error matching ErrNotFound.
func (n *Nominatim) Resolve(ctx context.Context, query string) (geo.Coordinate, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return geo.Coordinate{}, ErrNotFound
	}

	ctx, span := otel.Tracer("geocoder").Start(ctx, "nominatim.search")
	defer span.End()
	span.SetAttributes(attribute.String("geocode.query", q))

	var (
		coord geo.Coordinate
		err   error
	)
	if n.cache == nil {
		coord, err = n.search(ctx, q)
	} else {
		var value any
		var cached bool
		// Shared by concurrent callers: it outlives any one caller's
		// cancellation but not n.timeout.
		shared := context.WithoutCancel(ctx)
		value, err, cached = n.cache.Memoize(strings.ToLower(q), func() (any, error) {
			return n.search(shared, q)
		})
		span.SetAttributes(attribute.Bool("geocode.cached", cached))
		if err == nil {
			coord = value.(geo.Coordinate)
		}
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, ErrNotFound) {
			err = errors.Mark(err, ErrNotFound)
		}
		return geo.Coordinate{}, err
	}
	return coord, nil
}

func (n *Nominatim) search(ctx context.Context, q string) (geo.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	params := neturl.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", q)
	url := fmt.Sprintf("%s/search?%s", n.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return geo.Coordinate{}, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept-Language", n.acceptLanguage)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := n.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, errors.Wrapf(err, "failed to geocode %q", q)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	if resp.StatusCode > 299 {
		return geo.Coordinate{}, errors.Mark(errors.Newf("geocoder responded with %s", resp.Status), ErrNotFound)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Coordinate{}, errors.Wrap(err, "failed to unmarshal response")
	}
	if len(results) == 0 {
		return geo.Coordinate{}, ErrNotFound
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(results[0].Lat), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(results[0].Lon), 64)
	coord := geo.Coordinate{Lat: lat, Lng: lng}
	if latErr != nil || lngErr != nil || !coord.Valid() {
		return geo.Coordinate{}, errors.Mark(errors.Newf("unusable coordinates %q,%q", results[0].Lat, results[0].Lon), ErrNotFound)
	}

	log.Debug().Str("query", q).Str("match", results[0].DisplayName).Stringer("coordinate", coord).Msg("geocoded")
	return coord, nil
}
