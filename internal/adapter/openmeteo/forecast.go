package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/observability"
)

// DefaultForecastURL is the public Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// ForecastClient implements domain.WeatherFetcher using the Open-Meteo forecast API.
type ForecastClient struct {
	http    httpClient
	baseURL string
}

// NewForecastClient creates a forecast client. A zero timeout means no timeout.
func NewForecastClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *ForecastClient {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &ForecastClient{
		http:    newHTTPClient(timeout, metrics, logger),
		baseURL: baseURL,
	}
}

// Current fetches current conditions for the coordinates.
func (c *ForecastClient) Current(ctx context.Context, lat, lon float64) (domain.Conditions, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current_weather": {"true"},
	}

	var fcResp forecastResponse
	if err := c.http.getJSON(ctx, endpointForecast, c.baseURL+"?"+params.Encode(), &fcResp); err != nil {
		return domain.Conditions{}, err
	}

	cw := fcResp.CurrentWeather
	if cw == nil {
		c.http.metrics.UpstreamRequests.WithLabelValues(endpointForecast, "empty").Inc()
		return domain.Conditions{}, fmt.Errorf("forecast response missing current_weather")
	}

	observed, err := domain.ParseObservationTime(cw.Time, fcResp.UTCOffsetSeconds)
	if err != nil {
		c.http.metrics.UpstreamRequests.WithLabelValues(endpointForecast, "error").Inc()
		return domain.Conditions{}, err
	}
	c.http.metrics.UpstreamRequests.WithLabelValues(endpointForecast, "success").Inc()

	return domain.Conditions{
		Temperature:   cw.Temperature,
		WindSpeed:     cw.WindSpeed,
		WindDirection: cw.WindDirection,
		WeatherCode:   cw.WeatherCode,
		IsDay:         cw.IsDay == 1,
		ObservedAt:    observed,
	}, nil
}

// Open-Meteo forecast response types.

type forecastResponse struct {
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	Timezone         string          `json:"timezone"`
	CurrentWeather   *currentWeather `json:"current_weather"`
}

type currentWeather struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
}
