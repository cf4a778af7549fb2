package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records publish-loop activity for the outbox worker.
type OutboxMetrics struct {
	batchDuration *prometheus.HistogramVec
	published     *prometheus.CounterVec
	failed        *prometheus.CounterVec
	pending       prometheus.Gauge
}

// NewOutboxMetrics registers the outbox metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	batchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events published successfully.",
	}, []string{"topic"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox events whose publish attempt failed.",
	}, []string{"topic"})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_events_pending",
		Help: "Unpublished outbox events observed at the last poll.",
	})
	reg.MustRegister(batchDuration, published, failed, pending)
	return &OutboxMetrics{
		batchDuration: batchDuration,
		published:     published,
		failed:        failed,
		pending:       pending,
	}
}

// ObserveBatch records the duration of one publish batch.
func (m *OutboxMetrics) ObserveBatch(topic string, duration time.Duration) {
	if m == nil || m.batchDuration == nil {
		return
	}
	m.batchDuration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncPublished increments the published counter for the topic.
func (m *OutboxMetrics) IncPublished(topic string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailed increments the failure counter for the topic.
func (m *OutboxMetrics) IncFailed(topic string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(topic)).Inc()
}

// SetPending records the backlog size observed at the last poll.
func (m *OutboxMetrics) SetPending(count int) {
	if m == nil || m.pending == nil {
		return
	}
	m.pending.Set(float64(count))
}

func normalizeLabel(topic string) string {
	if topic == "" {
		return "unknown"
	}
	return topic
}
