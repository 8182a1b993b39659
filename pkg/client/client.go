// Package client provides the core collection API HTTP client with
// timeout handling, error translation, and request metrics.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Met Museum collection API.
const DefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// DefaultTimeout is the fixed per-request timeout.
const DefaultTimeout = 10 * time.Second

// Prometheus metrics for collection API operations.
var (
	metRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "met_requests_total",
		Help: "Total collection API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	metRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "met_request_duration_seconds",
		Help:    "Collection API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	metErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "met_errors_total",
		Help: "Total collection API errors by class",
	}, []string{"class"})
)

// Client is the collection API HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the collection API root (no trailing slash).
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout is the fixed per-request timeout.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "met-explorer/1.0",
		Timeout:   DefaultTimeout,
	}
}

// New creates a new collection API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := log.With().Str("component", "met-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Get performs a GET request against a collection API endpoint and returns
// the response body. Every failure mode (transport error, timeout, non-2xx
// status) is translated into an *APIError; nothing escapes this boundary.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	startTime := time.Now()
	defer func() {
		metRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &APIError{
			ErrorClass: ErrorClassClient,
			Message:    "create request",
			Err:        err,
		}
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", requestURL).
		Msg("Executing collection request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		metErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		metRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errClass := classifyStatus(resp.StatusCode)
		metErrorsTotal.WithLabelValues(string(errClass)).Inc()
		metRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Collection request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to read response body")
		metErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		metRequestsTotal.WithLabelValues(endpoint, "read_error").Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	metRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Collection request complete")

	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
