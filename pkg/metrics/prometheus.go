// Package metrics instruments outgoing index requests with Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Doer sends a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}
}

// Exporter holds the request metrics and serves them.
type Exporter struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewExporter creates and registers the request metrics.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vecdb",
			Name:      "requests_total",
			Help:      "Index requests by operation path and HTTP status code.",
		}, []string{"path", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vecdb",
			Name:      "request_duration_seconds",
			Help:      "Index request round trip latency.",
			Buckets:   cfg.LatencyBuckets,
		}, []string{"path"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vecdb",
			Name:      "transport_errors_total",
			Help:      "Index requests that failed without an HTTP response.",
		}, []string{"path"}),
	}

	registry.MustRegister(e.requests, e.latency, e.failures)
	return e
}

// Registry returns the underlying registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns the /metrics HTTP handler.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Wrap returns a Doer that records every request sent through next.
func (e *Exporter) Wrap(next Doer) Doer {
	return &instrumentedDoer{next: next, exporter: e}
}

type instrumentedDoer struct {
	next     Doer
	exporter *Exporter
}

func (d *instrumentedDoer) Do(req *http.Request) (*http.Response, error) {
	path := operationPath(req)
	start := time.Now()

	resp, err := d.next.Do(req)
	d.exporter.latency.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		d.exporter.failures.WithLabelValues(path).Inc()
		return nil, err
	}

	d.exporter.requests.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// operationPath keeps label cardinality bounded: control plane lookups
// collapse to "indexes".
func operationPath(req *http.Request) string {
	p := strings.Trim(req.URL.Path, "/")
	if strings.HasPrefix(p, "indexes/") {
		return "indexes"
	}
	if p == "" {
		return "/"
	}
	return p
}
