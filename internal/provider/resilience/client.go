package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Client errors.
var (
	// ErrCircuitOpen is returned without attempting the request when the
	// provider's circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// ServerError marks an HTTP 5xx so retries and the breaker treat it as a
// provider failure rather than a caller mistake.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ClientConfig holds tuning for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies the client for breaker naming.
	Name string

	// Timeout per individual HTTP attempt. Default: 10s.
	Timeout time.Duration

	// MaxRetries on transient failures. Default: 3.
	MaxRetries uint64

	// InitialInterval for exponential backoff. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff. Default: 5s.
	MaxInterval time.Duration

	// Breaker overrides the default breaker tuning when non-nil.
	Breaker *BreakerConfig
}

// DefaultClientConfig returns standard client tuning for a named provider.
func DefaultClientConfig(name string) ClientConfig {
	breaker := DefaultBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Breaker:         &breaker,
	}
}

// Client is an HTTP client that retries transient failures with exponential
// backoff and refuses calls while its circuit breaker is open.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient client, filling zero config with defaults.
func NewClient(cfg ClientConfig) *Client {
	def := DefaultClientConfig(cfg.Name)
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	breakerCfg := cfg.Breaker
	if breakerCfg == nil {
		breakerCfg = def.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](*breakerCfg),
		config:     cfg,
	}
}

// Do executes the request, retrying 5xx responses and network errors.
// Client errors (4xx) are returned to the caller without retrying.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retry count is the only limit

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response
	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}
		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if lastResp != nil {
			// Retries exhausted on a 5xx; hand the final response back.
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// BreakerState exposes the breaker state for health reporting.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
