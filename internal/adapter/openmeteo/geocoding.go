package openmeteo

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/observability"
)

// DefaultGeocodingURL is the public Open-Meteo geocoding search endpoint.
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// defaultResultCount is how many candidates are requested per search.
const defaultResultCount = 5

// GeocodingClient implements domain.Geocoder using the Open-Meteo geocoding API.
type GeocodingClient struct {
	http    httpClient
	baseURL string
	count   int
}

// NewGeocodingClient creates a geocoding client. A zero timeout means no timeout.
func NewGeocodingClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *GeocodingClient {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &GeocodingClient{
		http:    newHTTPClient(timeout, metrics, logger),
		baseURL: baseURL,
		count:   defaultResultCount,
	}
}

// Resolve searches for name and returns the candidates in API order. A
// response without results yields an empty slice and no error.
func (c *GeocodingClient) Resolve(ctx context.Context, name string) ([]domain.Location, error) {
	params := url.Values{
		"name":     {name},
		"count":    {strconv.Itoa(c.count)},
		"language": {"en"},
		"format":   {"json"},
	}

	var geoResp geocodingResponse
	if err := c.http.getJSON(ctx, endpointGeocode, c.baseURL+"?"+params.Encode(), &geoResp); err != nil {
		return nil, err
	}

	if len(geoResp.Results) == 0 {
		c.http.metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "empty").Inc()
		return []domain.Location{}, nil
	}
	c.http.metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "success").Inc()

	locs := make([]domain.Location, 0, len(geoResp.Results))
	for _, r := range geoResp.Results {
		locs = append(locs, domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Name:      r.Name,
			Country:   r.Country,
			Admin1:    r.Admin1,
			Timezone:  r.Timezone,
		})
	}
	return locs, nil
}

// Open-Meteo geocoding response types.

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
	Timezone    string  `json:"timezone"`
}
