package openmeteo

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	calls int
}

func (s *stubFetcher) Current(_ context.Context, _, _ float64) (domain.Conditions, error) {
	s.calls++
	return domain.Conditions{Temperature: 21}, nil
}

func TestRateLimitedGeocoder_ForwardsWithinBurst(t *testing.T) {
	inner := &countingGeocoder{result: []domain.Location{chennai}}
	g := NewRateLimitedGeocoder(inner, NewLimiter(1, 2))

	for range 2 {
		locs, err := g.Resolve(context.Background(), "Chennai")
		require.NoError(t, err)
		assert.Len(t, locs, 1)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedGeocoder_CancelWhileWaiting(t *testing.T) {
	inner := &countingGeocoder{result: []domain.Location{chennai}}
	g := NewRateLimitedGeocoder(inner, NewLimiter(0.001, 1))

	_, err := g.Resolve(context.Background(), "Chennai")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = g.Resolve(ctx, "Chennai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait canceled")
	assert.Equal(t, 1, inner.calls)
}

func TestRateLimitedFetcher_SharesLimiter(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	inner := &stubFetcher{}
	f := NewRateLimitedFetcher(inner, limiter)

	cond, err := f.Current(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 21.0, cond.Temperature)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = NewRateLimitedGeocoder(&countingGeocoder{}, limiter).Resolve(ctx, "x")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
