package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderEventsMetrics records order lifecycle events observed by the worker.
type OrderEventsMetrics struct {
	processed  *prometheus.CounterVec
	duplicates *prometheus.CounterVec
	failed     *prometheus.CounterVec
}

// NewOrderEventsMetrics registers the order event metrics on the provided registerer.
func NewOrderEventsMetrics(reg prometheus.Registerer) *OrderEventsMetrics {
	if reg == nil {
		return &OrderEventsMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_processed_total",
		Help: "Order lifecycle events processed successfully.",
	}, []string{"event_type"})
	duplicates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_duplicates_total",
		Help: "Order lifecycle events skipped because they were already processed.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_failed_total",
		Help: "Order lifecycle events whose handling failed.",
	}, []string{"event_type"})
	reg.MustRegister(processed, duplicates, failed)
	return &OrderEventsMetrics{
		processed:  processed,
		duplicates: duplicates,
		failed:     failed,
	}
}

// IncProcessed counts a successfully handled event.
func (m *OrderEventsMetrics) IncProcessed(eventType string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDuplicate counts an event skipped by the idempotency guard.
func (m *OrderEventsMetrics) IncDuplicate(eventType string) {
	if m == nil || m.duplicates == nil {
		return
	}
	m.duplicates.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed counts an event whose handling failed.
func (m *OrderEventsMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}
