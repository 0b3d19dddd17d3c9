// Package push provides a client for uploading raw device logs to the
// tracker's ingestion endpoint.
package push

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"resource-tracker/internal/config"
)

// Result is the ingestion endpoint's response body.
type Result struct {
	Status  string `json:"status"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// Client uploads raw log payloads to the tracker server.
type Client struct {
	endpoint   string             // Ingestion endpoint base URL
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// NewClient creates a new push client.
func NewClient(cfg *config.PushConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	// Set default timeout if not specified
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Set default retry config if not specified
	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	// Create resty client
	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "text/plain").
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "push-client").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	// Retry on error (timeout, connection failure, etc.)
	if err != nil {
		return true
	}

	// Retry on 5xx server errors
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}

	// Do not retry on 4xx client errors
	return false
}

// Push uploads one raw payload and returns the server's ingestion result.
func (c *Client) Push(ctx context.Context, payload []byte) (*Result, error) {
	var result Result

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetBody(payload).
		Post("/admin")

	if err != nil {
		c.logger.Error().Err(err).Msg("failed to push payload")
		return nil, fmt.Errorf("failed to push payload: %w", err)
	}

	// Check HTTP status code
	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("tracker returned non-200 status")
		return nil, fmt.Errorf("tracker returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	c.logger.Info().Str("user_id", result.UserID).Msg("payload pushed successfully")
	return &result, nil
}
