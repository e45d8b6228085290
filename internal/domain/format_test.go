package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatObservation(t *testing.T) {
	observed := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	date, clockTime := FormatObservation(observed, time.UTC)

	assert.Equal(t, "Wednesday, 1 May 2024", date)
	assert.Equal(t, "10:00 AM", clockTime)
}

func TestFormatObservation_ConvertsToViewerZone(t *testing.T) {
	observed := time.Date(2024, time.May, 1, 22, 30, 0, 0, time.UTC)
	ist := time.FixedZone("IST", 5*3600+1800)

	date, clockTime := FormatObservation(observed, ist)

	assert.Equal(t, "Thursday, 2 May 2024", date)
	assert.Equal(t, "4:00 AM", clockTime)
}

func TestFormatObservation_NilViewerShowsReportedWallClock(t *testing.T) {
	// The process zone must not leak into the displayed time.
	orig := time.Local
	time.Local = time.FixedZone("LINT", 14*3600)
	t.Cleanup(func() { time.Local = orig })

	for _, offset := range []int{0, 19800, -25200} {
		observed, err := ParseObservationTime("2024-05-01T10:00:00", offset)
		require.NoError(t, err)

		date, clockTime := FormatObservation(observed, nil)

		assert.Equal(t, "Wednesday, 1 May 2024", date, "offset %d", offset)
		assert.Equal(t, "10:00 AM", clockTime, "offset %d", offset)
	}
}

func TestFormatObservation_ExplicitViewerConverts(t *testing.T) {
	observed, err := ParseObservationTime("2024-05-01T10:00:00", 0)
	require.NoError(t, err)

	_, clockTime := FormatObservation(observed, time.FixedZone("IST", 19800))
	assert.Equal(t, "3:30 PM", clockTime)

	date, clockTime := FormatObservation(observed, time.FixedZone("LINT", 14*3600))
	assert.Equal(t, "Thursday, 2 May 2024", date)
	assert.Equal(t, "12:00 AM", clockTime)
}

func TestParseObservationTime(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		offset int
		want   time.Time
	}{
		{"naive minutes GMT", "2024-05-01T10:00", 0, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"naive seconds GMT", "2024-05-01T10:00:00", 0, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"naive with offset", "2024-05-01T15:30", 19800, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 ignores offset", "2024-05-01T10:00:00Z", 3600, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObservationTime(tt.raw, tt.offset)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseObservationTime_Invalid(t *testing.T) {
	_, err := ParseObservationTime("yesterday", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yesterday")
}
