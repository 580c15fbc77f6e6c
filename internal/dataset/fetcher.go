package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"heatmap/internal/config"
	"heatmap/internal/logger"
	"heatmap/pkg/utils"
)

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrResponseTooLarge     = errors.New("response exceeds size limit")
)

// DefaultMaxBytes caps a downloaded dataset.
const DefaultMaxBytes = 64 << 20

// Fetcher downloads dataset files with config-driven retry logic.
type Fetcher struct {
	client      *http.Client
	retryPolicy config.RetryPolicy
	headers     http.Header
	maxBytes    int64
	log         *logger.Logger
}

// NewFetcher creates a fetcher using the given retry policy. log may be nil.
func NewFetcher(policy config.RetryPolicy, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Discard()
	}

	return &Fetcher{
		client:      &http.Client{Timeout: policy.GetTimeout()},
		retryPolicy: policy,
		headers:     utils.NewHTTPHelper().BuildHeaders(nil),
		maxBytes:    DefaultMaxBytes,
		log:         log,
	}
}

// WithClient replaces the HTTP client, keeping the retry policy.
func (f *Fetcher) WithClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// WithMaxBytes sets the largest body Fetch accepts.
func (f *Fetcher) WithMaxBytes(n int64) *Fetcher {
	f.maxBytes = n
	return f
}

// Fetch downloads url, retrying transport failures and temporary HTTP statuses.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, f.retryPolicy.GetRetryDelay(attempt)); err != nil {
				return nil, err
			}
		}

		body, status, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("fetch %s (attempt %d/%d): %w", url, attempt, f.retryPolicy.MaxAttempts, err)

		if ctx.Err() != nil {
			return nil, lastErr
		}

		if status != 0 && !isRetryableStatus(status) {
			break
		}

		f.log.Warn("dataset fetch failed", "url", url, "attempt", attempt, "error", err)
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > f.maxBytes {
		// A truncated dataset would decode as if it were complete.
		return nil, resp.StatusCode, fmt.Errorf("%w: %d bytes", ErrResponseTooLarge, f.maxBytes)
	}

	return body, resp.StatusCode, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusBadGateway,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
