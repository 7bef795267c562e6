// Package status computes the availability of datasets within an accreditation.
// Statuses are derived on demand and never stored as the source of truth.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	consentmodels "broker/internal/consent/models"
	"broker/internal/evidence/models"
	"broker/internal/platform/config"
	"broker/internal/platform/httpclient"
	"broker/internal/platform/metrics"
	"broker/internal/platform/tracer"
	"broker/pkg/domain"
	"broker/pkg/requestcontext"
)

// Catalog rehydrates stored descriptors from the live catalog.
type Catalog interface {
	Lookup(ctx context.Context, name string) (*models.EvidenceCodeDescriptor, error)
}

// Consent reports the consent state of an accreditation.
type Consent interface {
	Status(ctx context.Context, acc *models.Accreditation) (consentmodels.Status, error)
}

// TokenSource issues bearer tokens for sources that declare required scopes.
type TokenSource interface {
	Token(ctx context.Context, scopes string, onBehalfOf *domain.Party) (string, error)
}

// Resolver computes dataset statuses.
type Resolver struct {
	catalog        Catalog
	consent        Consent
	doer           httpclient.Doer
	tokens         TokenSource
	defaultTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         tracer.Tracer
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithTokenSource enables bearer tokens on status polls.
func WithTokenSource(t TokenSource) Option {
	return func(r *Resolver) {
		r.tokens = t
	}
}

// WithDefaultTimeout bounds status polls of datasets that declare no timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.defaultTimeout = d
		}
	}
}

func New(catalog Catalog, consent Consent, doer httpclient.Doer, opts ...Option) *Resolver {
	if catalog == nil {
		panic("status.New: catalog is required")
	}
	if consent == nil {
		panic("status.New: consent coordinator is required")
	}
	if doer == nil {
		panic("status.New: http doer is required")
	}
	r := &Resolver{
		catalog:        catalog,
		consent:        consent,
		doer:           doer,
		defaultTimeout: config.DefaultHarvestTimeout,
		logger:         slog.Default(),
		tracer:         tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetStatus resolves one dataset of acc. stored is the accreditation's copy of
// the descriptor; only its name is used. With onlyLocalChecks an asynchronous
// dataset reports AggregateUnknown instead of polling its source.
func (r *Resolver) GetStatus(ctx context.Context, acc *models.Accreditation, stored *models.EvidenceCodeDescriptor, onlyLocalChecks bool) models.EvidenceStatus {
	live, err := r.catalog.Lookup(ctx, stored.Name)
	if err != nil {
		st := models.NewStatus(stored.Name, models.StatusUnavailable)
		st.Description = "evidence code is no longer offered"
		return st
	}

	if live.RequiresConsent(acc.ServiceContext) {
		return r.consentStatus(ctx, acc, live.Name)
	}

	if !live.IsAsynchronous {
		return models.NewStatus(live.Name, models.StatusAvailable)
	}
	if onlyLocalChecks {
		return models.NewStatus(live.Name, models.StatusAggregateUnknown)
	}
	return r.poll(ctx, acc, live)
}

// GetStatusList resolves every dataset of acc, polling asynchronous sources.
func (r *Resolver) GetStatusList(ctx context.Context, acc *models.Accreditation) []models.EvidenceStatus {
	out := make([]models.EvidenceStatus, 0, len(acc.EvidenceCodes))
	for i := range acc.EvidenceCodes {
		out = append(out, r.GetStatus(ctx, acc, &acc.EvidenceCodes[i], false))
	}
	return out
}

// GetLocalStatusList is GetStatusList without source polls.
func (r *Resolver) GetLocalStatusList(ctx context.Context, acc *models.Accreditation) []models.EvidenceStatus {
	out := make([]models.EvidenceStatus, 0, len(acc.EvidenceCodes))
	for i := range acc.EvidenceCodes {
		out = append(out, r.GetStatus(ctx, acc, &acc.EvidenceCodes[i], true))
	}
	return out
}

// AggregateStatus returns the first status that is not Available, in list
// order, or Available when there is none.
func AggregateStatus(list []models.EvidenceStatus) models.EvidenceStatusCode {
	for _, st := range list {
		if st.Status != models.StatusAvailable {
			return st.Status
		}
	}
	return models.StatusAvailable
}

func (r *Resolver) consentStatus(ctx context.Context, acc *models.Accreditation, name string) models.EvidenceStatus {
	cs, err := r.consent.Status(ctx, acc)
	if err != nil {
		st := models.NewStatus(name, models.StatusUnavailable)
		st.Description = "consent status could not be determined"
		return st
	}
	switch cs {
	case consentmodels.StatusPending:
		return models.NewStatus(name, models.StatusPendingConsent)
	case consentmodels.StatusDenied, consentmodels.StatusRevoked:
		return models.NewStatus(name, models.StatusDenied)
	case consentmodels.StatusExpired:
		return models.NewStatus(name, models.StatusExpired)
	default:
		return models.NewStatus(name, models.StatusAvailable)
	}
}

// poll asks an asynchronous source for the dataset's state. The answer is used
// as returned. Failures become Unavailable with a description.
func (r *Resolver) poll(ctx context.Context, acc *models.Accreditation, d *models.EvidenceCodeDescriptor) models.EvidenceStatus {
	ctx, span := r.tracer.Start(ctx, tracer.SpanStatusPoll,
		tracer.String(tracer.AttrEvidenceCode, d.Name),
		tracer.String(tracer.AttrAccreditationID, acc.ID),
	)
	ctx, cancel := context.WithTimeout(ctx, d.Timeout(r.defaultTimeout))
	defer cancel()

	var header http.Header
	if d.RequiredScopes != "" && r.tokens != nil {
		token, err := r.tokens.Token(ctx, d.RequiredScopes, nil)
		if err != nil {
			span.End(err)
			return r.unavailable(ctx, d, err)
		}
		header = httpclient.Bearer(token)
	}

	var st models.EvidenceStatus
	err := httpclient.DoJSON(ctx, r.doer, httpclient.Request{
		Upstream: d.Source,
		Method:   http.MethodPost,
		URL:      d.HarvestURL,
		Body:     acc.HarvesterRequest(d, models.AsyncActionCheckStatus),
		Header:   header,
	}, &st)
	span.End(err)
	if err != nil {
		return r.unavailable(ctx, d, err)
	}
	st.EvidenceCodeName = d.Name
	if st.Description == "" {
		st.Description = st.Status.String()
	}
	r.metrics.IncStatusPoll(st.Status.String())
	return st
}

func (r *Resolver) unavailable(ctx context.Context, d *models.EvidenceCodeDescriptor, err error) models.EvidenceStatus {
	r.metrics.IncStatusPoll("error")
	r.logger.WarnContext(ctx, "status poll failed",
		"evidence_code", d.Name,
		"source", d.Source,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	st := models.NewStatus(d.Name, models.StatusUnavailable)
	st.Description = "evidence source did not report a status"
	return st
}
