package upstream

import (
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/sony/gobreaker/v2"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// ServerError marks a 5xx response so that it counts against the breaker and
// is retried.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

type Config struct {
	Name string

	// AttemptTimeout bounds a single HTTP attempt. The overall budget comes from
	// the request context.
	AttemptTimeout time.Duration

	// MaxRetries after the first attempt; zero disables retries.
	MaxRetries uint64

	InitialInterval time.Duration
	MaxInterval     time.Duration

	Breaker BreakerConfig
}

func DefaultConfig(name string) Config {
	return Config{
		Name:            name,
		AttemptTimeout:  10 * time.Second,
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Breaker:         DefaultBreakerConfig(),
	}
}

type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     Config
}

func NewClient(cfg Config) *Client {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 10 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	return &Client{
		name:       cfg.Name,
		httpClient: &http.Client{Timeout: cfg.AttemptTimeout},
		breaker:    newBreaker[*http.Response](cfg.Name, cfg.Breaker), //nolint:bodyclose // type parameter
		config:     cfg,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Do sends the request through the breaker, retrying transport errors and 5xx
// responses until MaxRetries is reached or the request context is done. A 5xx
// that survives every retry is returned as a response, not an error; the
// caller owns its body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var last *http.Response
	discard := func() {
		if last != nil {
			_ = last.Body.Close()
			last = nil
		}
	}

	operation := func() error {
		discard()

		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // closed by discard or the caller
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(ErrCircuitOpen)
		}
		last = resp
		return err
	}

	err := backoff.Retry(operation, policy)
	if err != nil {
		var serverErr *ServerError
		if last != nil && errors.As(err, &serverErr) {
			return last, nil
		}
		discard()
		return nil, err
	}

	return last, nil
}

func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
