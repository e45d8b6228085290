// Package openmeteo implements the domain geocoder and weather fetcher against
// the public Open-Meteo APIs. No API key is required.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-now/internal/observability"
)

const (
	endpointGeocode  = "geocode"
	endpointForecast = "forecast"
)

// StatusError is returned when Open-Meteo answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("open-meteo %s API error: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// httpClient carries what both API clients need to issue instrumented GETs.
type httpClient struct {
	client  *http.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

func newHTTPClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) httpClient {
	return httpClient{
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// getJSON issues a GET to fullURL and decodes the JSON body into out.
func (c httpClient) getJSON(ctx context.Context, endpoint, fullURL string, out any) error {
	start := time.Now()
	err := c.doGet(ctx, endpoint, fullURL, out)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Debug("open-meteo request failed", "endpoint", endpoint, "error", err)
		return err
	}
	return nil
}

func (c httpClient) doGet(ctx context.Context, endpoint, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
