package openmeteo

import (
	"context"
	"fmt"

	"github.com/couchcryptid/weather-now/internal/domain"
	"golang.org/x/time/rate"
)

// RateLimitedGeocoder wraps a Geocoder with a token-bucket limiter.
type RateLimitedGeocoder struct {
	inner   domain.Geocoder
	limiter *rate.Limiter
}

// NewRateLimitedGeocoder wraps inner with limiter.
func NewRateLimitedGeocoder(inner domain.Geocoder, limiter *rate.Limiter) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{inner: inner, limiter: limiter}
}

// Resolve waits for limiter permission or context cancellation, then forwards.
func (r *RateLimitedGeocoder) Resolve(ctx context.Context, name string) ([]domain.Location, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.Resolve(ctx, name)
}

// RateLimitedFetcher wraps a WeatherFetcher with a token-bucket limiter.
type RateLimitedFetcher struct {
	inner   domain.WeatherFetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher wraps inner with limiter.
func NewRateLimitedFetcher(inner domain.WeatherFetcher, limiter *rate.Limiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{inner: inner, limiter: limiter}
}

// Current waits for limiter permission or context cancellation, then forwards.
func (r *RateLimitedFetcher) Current(ctx context.Context, lat, lon float64) (domain.Conditions, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Conditions{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.Current(ctx, lat, lon)
}

// NewLimiter builds the shared limiter for both Open-Meteo hosts.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), burst)
}
