package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the lookup widget.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec // labels: outcome={success,not_found,fetch_failed,superseded}
	LookupDuration prometheus.Histogram
	LookupInFlight prometheus.Gauge

	// Upstream (Open-Meteo) metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={geocode,forecast}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={geocode,forecast}
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all widget metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all widget metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.LookupsTotal,
		m.LookupDuration,
		m.LookupInFlight,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
	)

	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_now",
			Name:      "lookups_total",
			Help:      "Completed city lookups by outcome.",
		}, []string{"outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_now",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a geocode plus forecast lookup.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LookupInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_now",
			Name:      "lookup_in_flight",
			Help:      "1 while a lookup is loading, 0 otherwise.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_now",
			Name:      "upstream_requests_total",
			Help:      "Open-Meteo API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_now",
			Name:      "upstream_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_now",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
