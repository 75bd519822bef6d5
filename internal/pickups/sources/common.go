package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// RetryPolicy is the exponential backoff applied between failed attempts.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay returns the wait before retry number attempt (0-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.InitialInterval << uint(attempt)
	if p.MaxInterval > 0 && (d > p.MaxInterval || d <= 0) {
		return p.MaxInterval
	}
	return d
}

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidPolicy = errors.New("invalid retry policy")
)

// responseCheck accepts a response or returns why it must be discarded.
type responseCheck func(resp *http.Response) error

// fetchWithRetry runs one GET per attempt through cb. A response rejected by check is
// closed and counts as a failed attempt. An open circuit ends the loop immediately.
func fetchWithRetry(
	ctx context.Context,
	client *http.Client,
	policy RetryPolicy,
	cb *gobreaker.CircuitBreaker,
	url string,
	check responseCheck,
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}
	if policy.MaxRetries < 0 || policy.InitialInterval <= 0 {
		return nil, errInvalidPolicy
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			if err := check(resp); err != nil {
				resp.Body.Close()
				return nil, err
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if attempt >= policy.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(policy.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
