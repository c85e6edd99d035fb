package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks Riot API traffic and correlation runs. Collectors live on a
// private registry so several instances can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	QueriesTotal       *prometheus.CounterVec
	MatchesChecked     prometheus.Counter
	MatchesTogether    prometheus.Counter
	MatchesSkipped     prometheus.Counter
	QueryDuration      prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "playedtogether_riot_api_requests_total",
			Help: "Riot API requests by endpoint and HTTP status (0 for transport errors)",
		}, []string{"endpoint", "status"}),
		APIRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playedtogether_riot_api_request_duration_seconds",
			Help:    "Riot API request latency by endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "playedtogether_queries_total",
			Help: "Correlation runs by result",
		}, []string{"result"}),
		MatchesChecked: factory.NewCounter(prometheus.CounterOpts{
			Name: "playedtogether_matches_checked_total",
			Help: "Matches iterated by correlation runs",
		}),
		MatchesTogether: factory.NewCounter(prometheus.CounterOpts{
			Name: "playedtogether_matches_together_total",
			Help: "Matches where both players were participants",
		}),
		MatchesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "playedtogether_matches_skipped_total",
			Help: "Matches skipped because detail was unavailable or inconsistent",
		}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "playedtogether_query_duration_seconds",
			Help:    "Wall time of a full correlation run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

// ObserveAPIRequest records one Riot API call started at start.
func (m *Metrics) ObserveAPIRequest(endpoint string, status int, start time.Time) {
	m.APIRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// ObserveQuery records the outcome of a correlation run started at start.
func (m *Metrics) ObserveQuery(result string, checked, together, skipped int, start time.Time) {
	m.QueriesTotal.WithLabelValues(result).Inc()
	m.MatchesChecked.Add(float64(checked))
	m.MatchesTogether.Add(float64(together))
	m.MatchesSkipped.Add(float64(skipped))
	m.QueryDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
