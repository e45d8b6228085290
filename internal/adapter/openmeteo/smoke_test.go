//go:build openmeteo

package openmeteo

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/weather-now/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Open-Meteo APIs.
// Run with: go test -tags=openmeteo ./internal/adapter/openmeteo/ -v -count=1

func TestSmoke_Resolve(t *testing.T) {
	c := NewGeocodingClient(DefaultGeocodingURL, 10*time.Second, observability.NewMetricsForTesting(), discardLogger())

	locs, err := c.Resolve(context.Background(), "Chennai")
	require.NoError(t, err)
	require.NotEmpty(t, locs)

	assert.InDelta(t, 13.08, locs[0].Latitude, 0.2, "lat should be near Chennai")
	assert.InDelta(t, 80.27, locs[0].Longitude, 0.2, "lon should be near Chennai")
	assert.Equal(t, "India", locs[0].Country)
}

func TestSmoke_ResolveUnknown(t *testing.T) {
	c := NewGeocodingClient(DefaultGeocodingURL, 10*time.Second, observability.NewMetricsForTesting(), discardLogger())

	locs, err := c.Resolve(context.Background(), "Zzzzqxqzzz")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestSmoke_Current(t *testing.T) {
	c := NewForecastClient(DefaultForecastURL, 10*time.Second, observability.NewMetricsForTesting(), discardLogger())

	cond, err := c.Current(context.Background(), 13.08, 80.27)
	require.NoError(t, err)

	assert.False(t, cond.ObservedAt.IsZero())
	assert.WithinDuration(t, time.Now(), cond.ObservedAt, 3*time.Hour)
}
