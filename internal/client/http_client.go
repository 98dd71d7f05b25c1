package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThMadHatter/CarCalculator/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PageFetcher returns the raw body of a page
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// FetchError is a transport failure that survived all retries
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RetryingClient is a GET-only HTTP client with exponential backoff on
// connection errors, 429 and 5xx responses. It is safe for concurrent use.
type RetryingClient struct {
	httpClient *resty.Client
	retry      config.RetryConfig
	logger     *zap.Logger
}

// NewRetryingClient creates a client with the listing site's timeout and user agent
func NewRetryingClient(cfg config.ListingConfig, logger *zap.Logger) *RetryingClient {
	httpClient := resty.New()
	if cfg.RequestTimeout > 0 {
		httpClient.SetTimeout(cfg.RequestTimeout)
	}
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &RetryingClient{
		httpClient: httpClient,
		retry:      cfg.Retry,
		logger:     logger,
	}
}

// FetchPage performs a GET request, retrying transient failures
func (c *RetryingClient) FetchPage(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		resp, err := c.httpClient.R().SetContext(ctx).Get(url)
		if err != nil {
			fetchErr := &FetchError{URL: url, Err: err}
			if ctx.Err() != nil {
				return backoff.Permanent(fetchErr)
			}
			return fetchErr
		}

		status := resp.StatusCode()
		if status >= 200 && status < 300 {
			body = resp.Body()
			return nil
		}

		fetchErr := &FetchError{
			URL:        url,
			StatusCode: status,
			Err:        fmt.Errorf("unexpected status %s", http.StatusText(status)),
		}
		if isRetryableStatus(status) {
			return fetchErr
		}
		return backoff.Permanent(fetchErr)
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Retrying listing request",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, c.newBackOff(ctx), notify); err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &FetchError{URL: url, Err: err}
		}
		c.logger.Error("Listing request failed",
			zap.String("url", url),
			zap.Int("statusCode", fetchErr.StatusCode),
			zap.Int("attempts", attempt),
			zap.Error(fetchErr.Err))
		return nil, fetchErr
	}

	return body, nil
}

func (c *RetryingClient) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retry.InitialInterval
	eb.MaxInterval = c.retry.MaxInterval
	if c.retry.Multiplier >= 1 {
		eb.Multiplier = c.retry.Multiplier
	}
	// the retry count bounds the loop
	eb.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(eb, c.retry.MaxRetries), ctx)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
