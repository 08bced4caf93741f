package mealdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"recipebox/config"
	"recipebox/utils"

	"github.com/sony/gobreaker"
)

// Getter fetches the body of a GET request
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// HTTPGetter fetches over plain HTTP, spacing requests and, when a breaker is
// configured, failing fast once the upstream looks dead.
type HTTPGetter struct {
	client      *http.Client
	rateLimiter *utils.RateLimiter
	breaker     *gobreaker.CircuitBreaker
	logger      *utils.Logger
}

// NewHTTPGetter creates an HTTPGetter from the seed configuration.
// BreakerMinRequests of 0 leaves the breaker off.
func NewHTTPGetter(cfg *config.Config, logger *utils.Logger) *HTTPGetter {
	g := &HTTPGetter{
		client:      &http.Client{Timeout: time.Duration(cfg.RequestTimeoutMs) * time.Millisecond},
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
		logger:      logger,
	}
	if cfg.BreakerMinRequests > 0 {
		g.breaker = newBreaker(cfg.BreakerMinRequests, cfg.BreakerFailureThreshold, logger)
	}
	return g
}

func newBreaker(minRequests uint32, threshold float64, logger *utils.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mealdb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= threshold
		},
		// lookups cancelled by a failing sibling say nothing about the upstream
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker '%s' state changed from %v to %v", name, from, to)
		},
	})
}

// Get issues a GET request; any non-2xx status is an error
func (g *HTTPGetter) Get(ctx context.Context, url string) ([]byte, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		body []byte
		err  error
	)
	if g.breaker == nil {
		body, err = g.fetch(ctx, url)
	} else {
		var out interface{}
		out, err = g.breaker.Execute(func() (interface{}, error) {
			return g.fetch(ctx, url)
		})
		if err == nil {
			body = out.([]byte)
		}
	}
	if err != nil {
		return nil, err
	}

	g.logger.Debug("GET %s", url)
	return body, nil
}

func (g *HTTPGetter) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
