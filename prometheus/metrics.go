// Package prometheus exposes parity check metrics through Prometheus
// collectors and decorators for the pipeline's interfaces.
package prometheus

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/parity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "parity"

// Metrics holds all Prometheus metrics for parity checks.
type Metrics struct {
	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Publish metrics
	PublishesTotal *prometheus.CounterVec

	// Report metrics
	RunsTotal      *prometheus.CounterVec
	LastRunPages   *prometheus.GaugeVec
	LastRunVerdict *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "fetches_total",
				Help:      "Total number of page fetches by host and outcome",
			},
			[]string{"host", "outcome"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Page fetch duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"host"},
		),
		PublishesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "publishes_total",
				Help:      "Total number of artifact publishes by classification and outcome",
			},
			[]string{"classification", "outcome"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Total number of completed parity checks by result",
			},
			[]string{"result"},
		),
		LastRunPages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_run_pages",
				Help:      "Pages inventoried by the most recent run, by site",
			},
			[]string{"site"},
		),
		LastRunVerdict: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_run_verdicts",
				Help:      "Verdicts of the most recent run, by classification",
			},
			[]string{"classification"},
		),
	}

	reg.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.PublishesTotal,
		m.RunsTotal,
		m.LastRunPages,
		m.LastRunVerdict,
	)
	return m
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// fetchOutcome labels the result of a fetch.
func fetchOutcome(doc *parity.RenderedDocument, err error) string {
	if err != nil {
		var fe *parity.FetchError
		switch {
		case errors.As(err, &fe):
			return string(fe.Kind)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return "canceled"
		default:
			return "error"
		}
	}
	switch {
	case doc.StatusCode >= 500:
		return string(parity.FetchHTTP5xx)
	case doc.StatusCode >= 400:
		return string(parity.FetchHTTP4xx)
	default:
		return "ok"
	}
}

func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ToLower(u.Host)
}
