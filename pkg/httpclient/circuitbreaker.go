package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Doer is satisfied by both Client and CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// BreakerConfig tunes the breaker in front of a third-party API.
type BreakerConfig struct {
	Name string

	// HalfOpenProbes is how many requests may test the host while half-open.
	HalfOpenProbes uint32

	// Window clears the closed-state counts; 0 never clears them.
	Window time.Duration

	// OpenFor is how long rejected requests fail fast before probing again.
	OpenFor time.Duration

	// ConsecutiveFailures trips the breaker on its own, whatever the ratio.
	ConsecutiveFailures uint32

	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// MediaHostBreakerConfig is used for the image host. Uploads carry whole
// files, so a short run of failures opens the breaker rather than letting
// every request wait out its timeout.
func MediaHostBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		HalfOpenProbes:      2,
		Window:              2 * time.Minute,
		OpenFor:             20 * time.Second,
		ConsecutiveFailures: 3,
		FailureRatio:        0.6,
		MinRequests:         10,
	}
}

// ErrCircuitOpen is returned when the breaker rejects a request.
var ErrCircuitOpen = gobreaker.ErrOpenState

var (
	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "hadeedcart",
			Name:      "circuit_breaker_state",
			Help:      "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	breakerRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadeedcart",
			Name:      "circuit_breaker_rejected_total",
			Help:      "Requests refused without reaching the upstream host",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(breakerState, breakerRejected)
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// countsAgainstHost reports whether a response status means the host itself
// is unhealthy: any 5xx, or throttling (429, and 420 which the image host
// uses for rate limits). Other 4xx are the caller's problem.
func countsAgainstHost(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests || status == 420
}

// CircuitBreakerClient wraps a Client with circuit breaker protection.
type CircuitBreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
	name    string
}

// NewCircuitBreakerClient wraps client with a breaker configured by cfg.
func NewCircuitBreakerClient(client *Client, cfg BreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenProbes,
		Interval:    cfg.Window,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// A request abandoned by our own caller says nothing about the host.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		logger:  logger,
		name:    cfg.Name,
	}
}

// Do executes req through the breaker. Responses that count against the host
// are consumed and returned as *UpstreamError; any other response is handed
// back to the caller untouched.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if countsAgainstHost(resp.StatusCode) {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			_ = resp.Body.Close()
			return nil, &UpstreamError{Service: c.name, Status: resp.StatusCode, Message: string(body)}
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		breakerRejected.WithLabelValues(c.name).Inc()
		c.logger.WarnContext(ctx, "request rejected by circuit breaker",
			slog.String("breaker", c.name),
			slog.String("method", req.Method),
		)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// State returns the current state of the circuit breaker.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
