// Package metrics defines the Prometheus collectors for the suggest service
// and the host transport, and exposes a scrape handler.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kanaserve"

// Metrics holds all collectors, registered on a private registry.
type Metrics struct {
	SuggestTotal   *prometheus.CounterVec
	SuggestLatency prometheus.Histogram
	CommitsTotal   prometheus.Counter
	Ready          prometheus.Gauge
	DictEntries    prometheus.Gauge
	QueuedTotal    prometheus.Counter
	QueueDropped   prometheus.Counter
	PersistErrors  prometheus.Counter
	RequestsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

var _ suggest.Observer = (*Metrics)(nil)

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		SuggestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggest_total",
				Help:      "Suggest calls by outcome (hit, miss, none).",
			},
			[]string{"outcome"},
		),
		SuggestLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "suggest_latency_seconds",
				Help:      "Suggest latency in seconds.",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
		CommitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commits_total",
				Help:      "Accepted commit events.",
			},
		),
		Ready: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ready",
				Help:      "1 once the dictionary is loaded.",
			},
		),
		DictEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dictionary_entries",
				Help:      "Readings in the loaded dictionary.",
			},
		),
		QueuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queued_requests_total",
				Help:      "Requests held until the dictionary was ready.",
			},
		),
		QueueDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queue_dropped_total",
				Help:      "Queued requests dropped because the queue was full.",
			},
		),
		PersistErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "learning_persist_errors_total",
				Help:      "Commits the learning backend failed to record.",
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Inbound IPC messages by type.",
			},
			[]string{"type"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SuggestTotal,
		m.SuggestLatency,
		m.CommitsTotal,
		m.Ready,
		m.DictEntries,
		m.QueuedTotal,
		m.QueueDropped,
		m.PersistErrors,
		m.RequestsTotal,
	)
	return m
}

func (m *Metrics) ObserveSuggest(outcome suggest.Outcome, took time.Duration) {
	m.SuggestTotal.WithLabelValues(string(outcome)).Inc()
	m.SuggestLatency.Observe(took.Seconds())
}

func (m *Metrics) ObserveCommit() {
	m.CommitsTotal.Inc()
}

func (m *Metrics) ObserveReady(entries int) {
	m.Ready.Set(1)
	m.DictEntries.Set(float64(entries))
}

// ObserveRequest counts one inbound IPC message.
func (m *Metrics) ObserveRequest(typ string) {
	m.RequestsTotal.WithLabelValues(typ).Inc()
}

func (m *Metrics) ObserveQueued() {
	m.QueuedTotal.Inc()
}

func (m *Metrics) ObserveDropped() {
	m.QueueDropped.Inc()
}

func (m *Metrics) ObservePersistError() {
	m.PersistErrors.Inc()
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Debugf("Metrics listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
