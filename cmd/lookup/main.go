// Command lookup prints current weather for one or more cities using the same
// lookup session as the web widget. Without -city it reads city names from
// stdin, one per line.
//
// Usage:
//
//	go run ./cmd/lookup -city Chennai
//	printf 'Chennai\nZzzzqx\n' | go run ./cmd/lookup
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/weather-now/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-now/internal/config"
	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/lookup"
	"github.com/couchcryptid/weather-now/internal/observability"
	"github.com/couchcryptid/weather-now/internal/render"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	city := flag.String("city", "", "city to look up; reads stdin when empty")
	tz := flag.String("timezone", "", "IANA zone for displayed times (default DISPLAY_TIMEZONE, else the reported wall clock)")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	viewer := cfg.DisplayTimezone
	if *tz != "" {
		if viewer, err = time.LoadLocation(*tz); err != nil {
			return fmt.Errorf("invalid -timezone: %w", err)
		}
	}

	logger := observability.NewLogger(*logLevel, "text")
	// Nothing scrapes a one-shot CLI; keep its metrics off the default registry.
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	session := lookup.New(
		openmeteo.NewGeocodingClient(cfg.GeocodingURL, cfg.UpstreamTimeout, metrics, logger),
		openmeteo.NewForecastClient(cfg.ForecastURL, cfg.UpstreamTimeout, metrics, logger),
		logger, metrics,
	)
	defer session.Close()

	presenter := render.NewPresenter(render.MapConfig{
		Fallback: render.LatLon{Lat: cfg.MapFallbackLat, Lon: cfg.MapFallbackLon},
		Zoom:     cfg.MapZoom,
	}, viewer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// An interrupt cancels the loading lookup, which returns the session to Idle.
	go func() {
		<-ctx.Done()
		if session.Cancel() {
			logger.Info("lookup canceled")
		}
	}()

	if *city != "" {
		return lookupOne(ctx, session, presenter, *city, os.Stdout)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := lookupOne(ctx, session, presenter, scanner.Text(), os.Stdout); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

// lookupOne submits query and prints the resulting card. Blank lines are
// skipped. Cancellation comes from Session.Cancel, not from ctx, so an
// interrupted lookup prints "Canceled." rather than a fetch failure.
func lookupOne(ctx context.Context, s *lookup.Session, p *render.Presenter, query string, w io.Writer) error {
	st, err := s.Submit(context.WithoutCancel(ctx), query)
	switch {
	case errors.Is(err, lookup.ErrEmptyQuery):
		return nil
	case errors.Is(err, lookup.ErrSuperseded):
		_, err = fmt.Fprintln(w, "Canceled.")
		return err
	case err != nil:
		return err
	}
	if err := render.WriteText(w, p.View(st, s.Query())); err != nil {
		return err
	}
	if st.Phase() != domain.PhaseIdle {
		_, err = fmt.Fprintln(w)
	}
	return err
}
