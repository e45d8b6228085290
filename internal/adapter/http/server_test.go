package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/weather-now/internal/adapter/http"
	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/lookup"
	"github.com/couchcryptid/weather-now/internal/observability"
	"github.com/couchcryptid/weather-now/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	block chan struct{}
	// slow limits block to one city name when set.
	slow string
}

func (g *stubGeocoder) Resolve(ctx context.Context, name string) ([]domain.Location, error) {
	if g.block != nil && (g.slow == "" || g.slow == name) {
		select {
		case <-g.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if name == "Zzzzqx" {
		return nil, nil
	}
	return []domain.Location{{Latitude: 13.08, Longitude: 80.27, Name: "Chennai", Country: "India"}}, nil
}

type stubWeather struct{}

func (stubWeather) Current(_ context.Context, _, _ float64) (domain.Conditions, error) {
	return domain.Conditions{
		Temperature: 30,
		WindSpeed:   12,
		WeatherCode: 1,
		ObservedAt:  time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

func newTestServer(t *testing.T, geo *stubGeocoder) (*httpadapter.Server, *lookup.Session) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := lookup.New(geo, stubWeather{}, logger, observability.NewMetricsForTesting())
	t.Cleanup(session.Close)
	presenter := render.NewPresenter(render.MapConfig{Fallback: render.LatLon{Lat: 51.505, Lon: -0.09}, Zoom: 10}, time.UTC)
	return httpadapter.NewServer(":0", session, presenter, logger), session
}

func do(srv http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) render.View {
	t.Helper()
	var v render.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzFollowsFirstLookup(t *testing.T) {
	srv, session := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])

	_, err := session.Submit(context.Background(), "Zzzzqx")
	require.NoError(t, err)

	rec = do(srv, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPageRendersIdleWidget(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Weather Now")
	assert.Contains(t, rec.Body.String(), `placeholder="Enter city name..."`)
}

func TestUnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodGet, "/nope", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormLookupRedirectsAndRendersCard(t *testing.T) {
	srv, session := newTestServer(t, &stubGeocoder{})

	form := url.Values{"city": {"Chennai"}}.Encode()
	rec := do(srv, http.MethodPost, "/lookup", "application/x-www-form-urlencoded", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	require.Eventually(t, func() bool {
		return session.State().Phase() == domain.PhaseSuccess
	}, 2*time.Second, 10*time.Millisecond)

	page := do(srv, http.MethodGet, "/", "", "").Body.String()
	assert.Contains(t, page, "Chennai, India")
	assert.Contains(t, page, "30°C")
}

func TestFormLookupEmptyCityIsNoop(t *testing.T) {
	srv, session := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodPost, "/lookup", "application/x-www-form-urlencoded", "city=")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domain.Idle{}, session.State())
}

func TestAPILookupSuccess(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodPost, "/api/lookup", "application/json", `{"city":"Chennai"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "success", v.Phase)
	require.NotNil(t, v.Card)
	assert.Equal(t, "Chennai, India", v.Card.Title)
	assert.Equal(t, "Wednesday, 1 May 2024", v.Card.Date)
	assert.Equal(t, "10:00 AM", v.Card.Time)
	assert.Empty(t, v.Query)
}

func TestAPILookupNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodPost, "/api/lookup", "application/json", `{"city":"Zzzzqx"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "failed", v.Phase)
	assert.Equal(t, "City not found!", v.Error)
	assert.Nil(t, v.Card)
}

func TestAPILookupRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, &stubGeocoder{})

	rec := do(srv, http.MethodPost, "/api/lookup", "application/json", `{"city":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPost, "/api/lookup", "application/json", `{"city":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPILookupBusyReturns409(t *testing.T) {
	geo := &stubGeocoder{block: make(chan struct{})}
	srv, session := newTestServer(t, geo)

	_, err := session.Start(context.Background(), "Chennai")
	require.NoError(t, err)

	rec := do(srv, http.MethodPost, "/api/lookup", "application/json", `{"city":"Paris"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	state := decodeView(t, do(srv, http.MethodGet, "/api/state", "", ""))
	assert.True(t, state.Loading)
	assert.Equal(t, "loading", state.Phase)

	close(geo.block)
}

func TestAPILookupReplaceSupersedesLoading(t *testing.T) {
	geo := &stubGeocoder{block: make(chan struct{}), slow: "Atlantis"}
	srv, session := newTestServer(t, geo)

	stale, err := session.Start(context.Background(), "Atlantis")
	require.NoError(t, err)

	rec := do(srv, http.MethodPost, "/api/lookup", "application/json", `{"city":"Chennai","replace":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "success", v.Phase)
	require.NotNil(t, v.Card)
	assert.Equal(t, "Chennai, India", v.Card.Title)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = stale.Wait(ctx)
	assert.ErrorIs(t, err, lookup.ErrSuperseded)
}

func TestAPICancelReturnsToIdle(t *testing.T) {
	geo := &stubGeocoder{block: make(chan struct{})}
	srv, session := newTestServer(t, geo)

	_, err := session.Start(context.Background(), "Chennai")
	require.NoError(t, err)

	rec := do(srv, http.MethodDelete, "/api/lookup", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "idle", v.Phase)
	assert.False(t, v.Loading)
	assert.Equal(t, domain.Idle{}, session.State())

	rec = do(srv, http.MethodDelete, "/api/lookup", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFormCancelRedirects(t *testing.T) {
	geo := &stubGeocoder{block: make(chan struct{})}
	srv, session := newTestServer(t, geo)

	_, err := session.Start(context.Background(), "Chennai")
	require.NoError(t, err)
	assert.Contains(t, do(srv, http.MethodGet, "/", "", "").Body.String(), `action="/lookup/cancel"`)

	rec := do(srv, http.MethodPost, "/lookup/cancel", "application/x-www-form-urlencoded", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domain.Idle{}, session.State())
}
