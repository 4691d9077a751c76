package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/frost-dashboard/internal/frost"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errCircuitOpen   = errors.New("servidor no disponible temporalmente, intente más tarde")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// tripAfter is the number of consecutive failures that opens a breaker.
const tripAfter = 5

// breaker guards a single backend endpoint. It remembers the last error
// response so an open breaker can still report what the server said.
type breaker struct {
	cb *gobreaker.CircuitBreaker

	mu   sync.Mutex
	last *frost.APIError
}

func newBreaker(name string) *breaker {
	return &breaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    1 * time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > tripAfter
			},
			IsSuccessful: answered,
		}),
	}
}

// answered reports whether the backend handled the request, even if it
// rejected it with an explanation. Only silent failures count against the
// breaker.
func answered(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *frost.APIError
	return errors.As(err, &apiErr) && apiErr.Message != ""
}

func (b *breaker) remember(err error) {
	var apiErr *frost.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	b.mu.Lock()
	b.last = apiErr
	b.mu.Unlock()
}

// openError is returned while the breaker rejects requests.
func (b *breaker) openError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last != nil {
		return fmt.Errorf("%w: %w", errCircuitOpen, b.last)
	}
	return errCircuitOpen
}

// doRequestWithResilience executes the request through the endpoint breaker.
// Transport failures and 5xx/429 responses are retried with exponential
// backoff up to MaxRetries; other responses are returned to the caller,
// which owns the body.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	b *breaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := b.cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				defer resp.Body.Close()
				return nil, decodeAPIError(resp)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Printf("WARN: %s: %v", b.cb.Name(), err)
			return nil, b.openError()
		}
		b.remember(err)

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

// decodeAPIError turns a non-success response into a *frost.APIError,
// preferring the body's "error" field as message.
func decodeAPIError(resp *http.Response) *frost.APIError {
	apiErr := &frost.APIError{Status: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
