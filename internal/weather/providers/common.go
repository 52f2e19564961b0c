package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/i474232898/skycast/internal/weather"
	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errClientStatus = errors.New("request rejected")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errMissingField = errors.New("missing field in provider response")
)

// circuitOpenFor is how long an open circuit fails calls without sending them.
const circuitOpenFor = 30 * time.Second

// newCircuitBreaker guards a single upstream. An open circuit fails calls fast
// instead of sending them; nothing is retried.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      circuitOpenFor,
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("INFO: circuit %s changed from %s to %s", name, from, to)
		},
	})
}

// upstreamHealthy reports whether err leaves the upstream's health untouched.
// A caller giving up and a request the upstream rejected as invalid say
// nothing about the upstream being down.
func upstreamHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errClientStatus)
}

// getJSON performs one GET through the circuit breaker and decodes the body
// into target. Every failure is wrapped with weather.ErrServiceUnavailable.
func getJSON(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	url string,
	target interface{},
) error {
	if client == nil {
		return weather.Unavailable(errNoHTTPClient)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return weather.Unavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	_, err = cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		// Handle rate limiting and server errors explicitly.
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: %d", errClientStatus, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("error reading response: %w", readErr)
		}
		if jsonErr := json.Unmarshal(body, target); jsonErr != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", jsonErr)
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}

	// If circuit is open, the request was never sent.
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return weather.Unavailable(fmt.Errorf("%w: %v", errCircuitOpen, err))
	}
	return weather.Unavailable(err)
}

func missing(field string) error {
	return weather.Unavailable(fmt.Errorf("%w: %s", errMissingField, field))
}
