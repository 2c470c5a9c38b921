package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmunix/vaultimg/internal/events"
)

// Metrics turns import events into Prometheus counters.
type Metrics struct {
	registry *prometheus.Registry

	imports  *prometheus.CounterVec
	failures *prometheus.CounterVec
	bytes    prometheus.Counter
	warnings prometheus.Counter
	dropped  prometheus.Counter
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultimg",
			Name:      "imports_total",
			Help:      "Finished imports by terminal status and source kind.",
		}, []string{"status", "source_kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultimg",
			Name:      "import_failures_total",
			Help:      "Failed imports by error kind.",
		}, []string{"kind"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vaultimg",
			Name:      "imported_bytes_total",
			Help:      "Bytes written to the vault by successful imports.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vaultimg",
			Name:      "import_warnings_total",
			Help:      "Secondary failures (cleanup, note) on successful imports.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vaultimg",
			Name:      "watch_files_dropped_total",
			Help:      "Files picked up from the watched directory.",
		}),
	}
	m.registry.MustRegister(
		m.imports, m.failures, m.bytes, m.warnings, m.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records a single event. Unknown event types are ignored.
func (m *Metrics) Observe(e events.Event) {
	switch ev := e.(type) {
	case *events.ImportCompleted:
		m.imports.WithLabelValues("succeeded", ev.SourceKind).Inc()
		m.bytes.Add(float64(ev.FileSize))
		m.warnings.Add(float64(len(ev.Warnings)))
	case *events.ImportCanceled:
		m.imports.WithLabelValues("canceled", ev.SourceKind).Inc()
	case *events.ImportFailed:
		m.imports.WithLabelValues("failed", ev.SourceKind).Inc()
		m.failures.WithLabelValues(ev.Kind).Inc()
	case *events.FileDropped:
		m.dropped.Inc()
	}
}

// Consume observes events from ch until ctx is canceled or ch is closed.
func (m *Metrics) Consume(ctx context.Context, ch <-chan events.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			m.Observe(e)
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
