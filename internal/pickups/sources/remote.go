package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/pickups-dashboard/internal/pickups"
)

// DefaultDataURL is the public Uber pickups sample (September 2014, gzip CSV).
const DefaultDataURL = "https://s3-us-west-2.amazonaws.com/streamlit-demo-data/uber-raw-data-sep14.csv.gz"

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errStatus      = errors.New("unexpected status code")
	errNotCSV      = errors.New("response is not a csv payload")
)

// htmlTypes mark an error or login page served in place of the file.
var htmlTypes = []string{"text/html", "application/xhtml+xml"}

// RemoteSource implements pickups.Source for a CSV file served over HTTP.
type RemoteSource struct {
	url     string
	client  *http.Client
	policy  RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

// NewRemoteSource creates a RemoteSource for url. maxRetries of 0 surfaces the first
// failure without retrying.
func NewRemoteSource(client *http.Client, url string, maxRetries int) *RemoteSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-csv",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	})

	return &RemoteSource{
		url:    url,
		client: client,
		policy: RetryPolicy{
			MaxRetries:      maxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

func (s *RemoteSource) Name() string {
	return "remote " + s.url
}

// Open issues the GET request and returns the response body. Any failure is wrapped
// in pickups.ErrDataFetch.
func (s *RemoteSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := fetchWithRetry(ctx, s.client, s.policy, s.circuit, s.url, checkPickupsResponse)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pickups.ErrDataFetch, s.url, err)
	}
	return resp.Body, nil
}

// checkPickupsResponse accepts a 2xx response carrying anything but an HTML page.
// The payload itself is sniffed by pickups.ReadCSV.
func checkPickupsResponse(resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code >= 500:
		return fmt.Errorf("%w: %d", errServerError, code)
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", errStatus, code)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil {
			for _, html := range htmlTypes {
				if mediaType == html {
					return fmt.Errorf("%w: content type %s", errNotCSV, mediaType)
				}
			}
		}
	}
	return nil
}
