package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the outbox worker. Methods are nil-safe.
type Metrics struct {
	PendingDepth    prometheus.Gauge
	PublishedTotal  prometheus.Counter
	PublishFailures prometheus.Counter
	PurgedTotal     prometheus.Counter
	PublishDuration prometheus.Histogram
	BatchSize       prometheus.Histogram
	PollDuration    prometheus.Histogram
}

// New registers the outbox collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PendingDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "broker_audit_outbox_pending",
			Help: "Current number of unpublished audit outbox entries",
		}),
		PublishedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "broker_audit_outbox_published_total",
			Help: "Audit outbox entries successfully relayed",
		}),
		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "broker_audit_outbox_publish_failures_total",
			Help: "Audit outbox fetch or publish failures",
		}),
		PurgedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "broker_audit_outbox_purged_total",
			Help: "Processed audit outbox entries removed after the retention period",
		}),
		PublishDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "broker_audit_outbox_publish_duration_seconds",
			Help:    "Time taken to relay one audit outbox entry",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "broker_audit_outbox_batch_size",
			Help:    "Number of entries processed per poll",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		PollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "broker_audit_outbox_poll_duration_seconds",
			Help:    "Time taken for each poll cycle",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) SetPendingDepth(count int64) {
	if m == nil {
		return
	}
	m.PendingDepth.Set(float64(count))
}

func (m *Metrics) IncPublished() {
	if m == nil {
		return
	}
	m.PublishedTotal.Inc()
}

func (m *Metrics) IncPublishFailures() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
}

func (m *Metrics) AddPurged(n int64) {
	if m == nil {
		return
	}
	m.PurgedTotal.Add(float64(n))
}

func (m *Metrics) ObservePublishDuration(durationSeconds float64) {
	if m == nil {
		return
	}
	m.PublishDuration.Observe(durationSeconds)
}

func (m *Metrics) ObserveBatchSize(size int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
}

func (m *Metrics) ObservePollDuration(durationSeconds float64) {
	if m == nil {
		return
	}
	m.PollDuration.Observe(durationSeconds)
}
