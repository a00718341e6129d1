// Package client provides the core GBIF HTTP client with structured logging,
// request metrics, and error classification.
//
// The client is deliberately thin: the GBIF occurrence API is unauthenticated
// and this module performs no retries, caching, or rate limiting. Any
// transport failure or non-2xx status aborts the request with a typed error.
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

// DefaultBaseURL is the GBIF REST API root.
const DefaultBaseURL = "https://api.gbif.org"

// Prometheus metrics for GBIF client operations.
var (
	gbifRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gbif_requests_total",
		Help: "Total GBIF requests by endpoint and status",
	}, []string{"endpoint", "status"})

	gbifRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gbif_request_duration_seconds",
		Help:    "GBIF request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	gbifErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gbif_errors_total",
		Help: "Total GBIF errors by class",
	}, []string{"class"})
)

// Client is the GBIF API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root (default: DefaultBaseURL).
	BaseURL string

	// UserAgent identifies the caller to GBIF.
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Timeout bounds each HTTP request. Zero means no timeout; a hang in the
	// external API then blocks the caller, matching the synchronous contract.
	Timeout time.Duration

	// HTTPClient overrides the underlying transport (mainly for tests).
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "gbif-records/0.2.0 (github.com/savantlab/gbif-records)",
		Timeout:   30 * time.Second,
	}
}

// New creates a new GBIF client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     log.With().Str("component", "gbif-client").Logger(),
	}, nil
}

// Get performs a GET request against an API path with the given query
// parameters. A transport failure or a non-2xx status aborts the request and
// returns an *APIError; the caller never sees a partial or error response
// body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		gbifRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", req.URL.RawQuery).
		Msg("Executing GBIF request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := ErrorClassNetwork
		gbifErrorsTotal.WithLabelValues(string(errClass)).Inc()
		gbifRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &APIError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}

	gbifRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errClass := ClassifyStatus(resp.StatusCode)
		gbifErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("GBIF request error")

		// Drain so the connection can be reused, then fail hard.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	return resp, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}
