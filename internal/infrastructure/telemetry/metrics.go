package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const namespace = "cdlist"

// Metrics turns the loading events of a workspace into Prometheus series.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchInFlight *prometheus.GaugeVec
	fetchDuration *prometheus.HistogramVec
	notices       *prometheus.CounterVec
	listSize      prometheus.Gauge
	cacheSize     prometheus.Gauge

	mu     sync.Mutex
	starts map[string][]time.Time
}

// NewMetrics registers the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Remote operation transitions by operation name and phase",
		}, []string{"name", "phase"}),
		fetchInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_inflight",
			Help:      "Remote operations currently in flight",
		}, []string{"name"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Remote operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"}),
		notices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "User-facing notices by level",
		}, []string{"level"}),
		listSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_entries",
			Help:      "Entries in the working list",
		}),
		cacheSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_definitions",
			Help:      "Definitions held by the cache",
		}),
		starts: make(map[string][]time.Time),
	}
}

// Registry returns the registry to expose on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Attach subscribes the metrics to the workspace bus and returns the unsubscribe function.
func (m *Metrics) Attach(workspace *entities.Workspace) func() {
	return workspace.Bus.Subscribe(func(event entities.Event) {
		switch event.Kind {
		case entities.EventLoadingChanged:
			m.observe(event)
		case entities.EventNotice:
			m.notices.WithLabelValues(string(event.Level)).Inc()
		case entities.EventListChanged:
			m.listSize.Set(float64(workspace.List.Len()))
		case entities.EventCacheChanged:
			m.cacheSize.Set(float64(workspace.Cache.Len()))
		}
	})
}

func (m *Metrics) observe(event entities.Event) {
	m.fetchTotal.WithLabelValues(event.Operation, string(event.Phase)).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	if event.Phase == entities.PhaseStart {
		m.starts[event.Operation] = append(m.starts[event.Operation], event.At)
		m.fetchInFlight.WithLabelValues(event.Operation).Inc()
		return
	}

	pending := m.starts[event.Operation]
	if len(pending) == 0 {
		return
	}
	m.starts[event.Operation] = pending[1:]
	m.fetchInFlight.WithLabelValues(event.Operation).Dec()
	m.fetchDuration.WithLabelValues(event.Operation).Observe(event.At.Sub(pending[0]).Seconds())
}
