package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application's Prometheus collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	contactSubmissions *prometheus.CounterVec
	ledgerSwept        prometheus.Counter
	videoFetches       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		contactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		}, []string{"outcome"}),
		ledgerSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_contact_ledger_swept_total",
			Help: "Idle sources removed from the contact rate ledger",
		}),
		videoFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_video_fetches_total",
			Help: "Channel video fetches by result",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.contactSubmissions,
		m.ledgerSwept,
		m.videoFetches,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterLedgerSize exposes the number of tracked sources as a gauge
func (m *Metrics) RegisterLedgerSize(size func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "portfolio_contact_ledger_sources",
		Help: "Sources currently tracked by the in-memory contact rate ledger",
	}, func() float64 { return float64(size()) }))
}

func (m *Metrics) ObserveContact(outcome string) {
	if m == nil {
		return
	}
	m.contactSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLedgerSweep(removed int) {
	if m == nil {
		return
	}
	m.ledgerSwept.Add(float64(removed))
}

func (m *Metrics) ObserveVideoFetch(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.videoFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
