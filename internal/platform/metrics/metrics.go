package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the broker's Prometheus collectors. Methods are nil-safe so
// services can run without metrics in tests.
type Metrics struct {
	CatalogRefreshes     *prometheus.CounterVec
	CatalogSourceErrors  *prometheus.CounterVec
	CatalogCacheLookups  *prometheus.CounterVec
	CatalogDatasets      prometheus.Gauge
	CatalogRefreshTime   prometheus.Histogram
	PolicyEvaluations    *prometheus.CounterVec
	Authorizations       *prometheus.CounterVec
	HarvestLatency       *prometheus.HistogramVec
	HarvestOutcomes      *prometheus.CounterVec
	StatusPolls          *prometheus.CounterVec
	UpstreamCircuitOpens *prometheus.CounterVec
	TokenRequests        *prometheus.CounterVec
	EntityLookups        *prometheus.CounterVec
	RateLimitDecisions   *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer in main
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CatalogRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_catalog_refreshes_total",
			Help: "Catalog rebuilds from evidence sources, labeled by trigger",
		}, []string{"trigger"}),
		CatalogSourceErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_catalog_source_errors_total",
			Help: "Evidence source fetches that failed or returned malformed data",
		}, []string{"source"}),
		CatalogCacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_catalog_cache_lookups_total",
			Help: "Catalog cache lookups by tier and result",
		}, []string{"tier", "result"}),
		CatalogDatasets: f.NewGauge(prometheus.GaugeOpts{
			Name: "broker_catalog_datasets",
			Help: "Number of descriptors in the last built catalog",
		}),
		CatalogRefreshTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "broker_catalog_refresh_duration_seconds",
			Help:    "Duration of catalog rebuilds",
			Buckets: prometheus.DefBuckets,
		}),
		PolicyEvaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_policy_requirement_evaluations_total",
			Help: "Requirement evaluations by kind and outcome",
		}, []string{"kind", "outcome"}),
		Authorizations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_authorizations_total",
			Help: "Authorization requests by outcome",
		}, []string{"outcome"}),
		HarvestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "broker_harvest_duration_seconds",
			Help:    "Harvest latency by evidence source",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 35},
		}, []string{"source"}),
		HarvestOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_harvests_total",
			Help: "Harvests by evidence source and outcome",
		}, []string{"source", "outcome"}),
		StatusPolls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_async_status_polls_total",
			Help: "Asynchronous status polls by resulting status",
		}, []string{"status"}),
		UpstreamCircuitOpens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_upstream_circuit_opens_total",
			Help: "Circuit breaker trips per upstream host",
		}, []string{"host"}),
		TokenRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_token_requests_total",
			Help: "Token issuer requests by result",
		}, []string{"result"}),
		EntityLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_entity_registry_lookups_total",
			Help: "Entity registry lookups by result",
		}, []string{"result"}),
		RateLimitDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_ratelimit_decisions_total",
			Help: "Rate limit checks by endpoint class, key type and decision",
		}, []string{"class", "key", "decision"}),
	}
}

func (m *Metrics) IncCatalogRefresh(trigger string) {
	if m == nil {
		return
	}
	m.CatalogRefreshes.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncCatalogSourceError(source string) {
	if m == nil {
		return
	}
	m.CatalogSourceErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordCatalogLookup(tier string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CatalogCacheLookups.WithLabelValues(tier, result).Inc()
}

func (m *Metrics) ObserveCatalogRefresh(d time.Duration, datasets int) {
	if m == nil {
		return
	}
	m.CatalogRefreshTime.Observe(d.Seconds())
	m.CatalogDatasets.Set(float64(datasets))
}

func (m *Metrics) IncPolicyEvaluation(kind, outcome string) {
	if m == nil {
		return
	}
	m.PolicyEvaluations.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncAuthorization(outcome string) {
	if m == nil {
		return
	}
	m.Authorizations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHarvest(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.HarvestLatency.WithLabelValues(source).Observe(d.Seconds())
	m.HarvestOutcomes.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) IncStatusPoll(status string) {
	if m == nil {
		return
	}
	m.StatusPolls.WithLabelValues(status).Inc()
}

func (m *Metrics) IncCircuitOpen(host string) {
	if m == nil {
		return
	}
	m.UpstreamCircuitOpens.WithLabelValues(host).Inc()
}

func (m *Metrics) IncTokenRequest(result string) {
	if m == nil {
		return
	}
	m.TokenRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) IncEntityLookup(result string) {
	if m == nil {
		return
	}
	m.EntityLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncRateLimitDecision(class, key string, allowed bool) {
	if m == nil {
		return
	}
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	m.RateLimitDecisions.WithLabelValues(class, key, decision).Inc()
}
