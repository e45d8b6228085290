package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/weather-now/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-now/internal/adapter/kafka"
	"github.com/couchcryptid/weather-now/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-now/internal/config"
	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/lookup"
	"github.com/couchcryptid/weather-now/internal/observability"
	"github.com/couchcryptid/weather-now/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	session := lookup.New(newGeocoder(cfg, metrics, logger), newFetcher(cfg, metrics, logger), logger, metrics)

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		session.Subscribe(publisher.Listen)
		logger.Info("lookup event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	presenter := render.NewPresenter(render.MapConfig{
		Fallback: render.LatLon{Lat: cfg.MapFallbackLat, Lon: cfg.MapFallbackLon},
		Zoom:     cfg.MapZoom,
	}, cfg.DisplayTimezone)

	srv := httpadapter.NewServer(cfg.HTTPAddr, session, presenter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	publisherDone := make(chan struct{})
	if publisher != nil {
		go func() {
			defer close(publisherDone)
			if err := publisher.Run(ctx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
	}

	// Initial lookup for the default city; the map sits on the fallback
	// coordinates until it succeeds.
	if cfg.DefaultCity != "" {
		if _, err := session.Start(context.WithoutCancel(ctx), cfg.DefaultCity); err != nil {
			logger.Warn("default lookup not started", "city", cfg.DefaultCity, "error", err)
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")

	if session.Cancel() {
		logger.Info("canceled in-flight lookup")
	}
	session.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		// Run flushes buffered events once ctx is done; close after it returns.
		<-publisherDone
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newGeocoder builds client -> rate limiter -> cache, so cache hits skip the limiter.
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	var g domain.Geocoder = openmeteo.NewRateLimitedGeocoder(
		openmeteo.NewGeocodingClient(cfg.GeocodingURL, cfg.UpstreamTimeout, metrics, logger),
		openmeteo.NewLimiter(cfg.UpstreamRPS, cfg.UpstreamBurst),
	)
	if cfg.GeocodeCacheSize > 0 {
		g = openmeteo.NewCachedGeocoder(g, cfg.GeocodeCacheSize, metrics)
		logger.Info("geocode cache enabled", "cache_size", cfg.GeocodeCacheSize)
	}
	return g
}

func newFetcher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.WeatherFetcher {
	return openmeteo.NewRateLimitedFetcher(
		openmeteo.NewForecastClient(cfg.ForecastURL, cfg.UpstreamTimeout, metrics, logger),
		openmeteo.NewLimiter(cfg.UpstreamRPS, cfg.UpstreamBurst),
	)
}
