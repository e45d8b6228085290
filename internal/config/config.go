package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all widget settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Open-Meteo upstream configuration.
	GeocodingURL     string
	ForecastURL      string
	UpstreamTimeout  time.Duration
	UpstreamRPS      float64
	UpstreamBurst    int
	GeocodeCacheSize int

	// Widget presentation.
	DefaultCity     string
	MapFallbackLat  float64
	MapFallbackLon  float64
	MapZoom         int
	DisplayTimezone *time.Location

	// Optional lookup event stream.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether lookup events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("UPSTREAM_TIMEOUT", "10s"))
	if err != nil || upstreamTimeout < 0 {
		return nil, errors.New("invalid UPSTREAM_TIMEOUT")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("UPSTREAM_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid UPSTREAM_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("UPSTREAM_BURST", "5"))
	if err != nil || burst < 1 {
		return nil, errors.New("invalid UPSTREAM_BURST")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("GEOCODE_CACHE_SIZE", "256"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid GEOCODE_CACHE_SIZE")
	}

	lat, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MAP_FALLBACK_LAT", "51.505"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errors.New("invalid MAP_FALLBACK_LAT")
	}

	lon, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MAP_FALLBACK_LON", "-0.09"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, errors.New("invalid MAP_FALLBACK_LON")
	}

	zoom, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAP_ZOOM", "10"))
	if err != nil || zoom < 0 || zoom > 19 {
		return nil, errors.New("invalid MAP_ZOOM")
	}

	var tz *time.Location
	if name := os.Getenv("DISPLAY_TIMEZONE"); name != "" {
		tz, err = time.LoadLocation(name)
		if err != nil {
			return nil, errors.New("invalid DISPLAY_TIMEZONE")
		}
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodingURL:     sharedcfg.EnvOrDefault("GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		ForecastURL:      sharedcfg.EnvOrDefault("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		UpstreamTimeout:  upstreamTimeout,
		UpstreamRPS:      rps,
		UpstreamBurst:    burst,
		GeocodeCacheSize: cacheSize,

		DefaultCity:     strings.TrimSpace(sharedcfg.EnvOrDefault("DEFAULT_CITY", "London")),
		MapFallbackLat:  lat,
		MapFallbackLon:  lon,
		MapZoom:         zoom,
		DisplayTimezone: tz,

		KafkaBrokers: parseList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-lookups"),
	}

	if !isHTTPURL(cfg.GeocodingURL) {
		return nil, errors.New("invalid GEOCODING_URL")
	}
	if !isHTTPURL(cfg.ForecastURL) {
		return nil, errors.New("invalid FORECAST_URL")
	}

	return cfg, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
