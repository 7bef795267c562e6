// Package authorization validates authorization requests and issues accreditations.
package authorization

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"broker/internal/evidence/models"
	"broker/internal/evidence/status"
	"broker/internal/platform/metrics"
	"broker/internal/platform/tracer"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/audit"
	"broker/pkg/requestcontext"
)

// Service issues accreditations.
type Service struct {
	validator *Validator
	consent   ConsentInitiator
	status    StatusResolver
	store     AccreditationStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	audit     *audit.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditLogger records issued accreditations on the audit trail.
func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates the service. Panics if a required dependency is nil.
func New(validator *Validator, consent ConsentInitiator, statuses StatusResolver, store AccreditationStore, opts ...Option) *Service {
	if validator == nil {
		panic("authorization.New: validator is required")
	}
	if consent == nil {
		panic("authorization.New: consent initiator is required")
	}
	if statuses == nil {
		panic("authorization.New: status resolver is required")
	}
	if store == nil {
		panic("authorization.New: accreditation store is required")
	}
	s := &Service{
		validator: validator,
		consent:   consent,
		status:    statuses,
		store:     store,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorize validates req and persists the resulting accreditation. Datasets
// dropped by Skip requirements are absent from the result.
func (s *Service) Authorize(ctx context.Context, req *models.AuthorizationRequest) (acc *models.Accreditation, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAuthorize,
		tracer.String(tracer.AttrServiceContext, requestcontext.ServiceContext(ctx)),
	)
	defer func() {
		span.End(err)
		if err != nil {
			s.metrics.IncAuthorization(dErrors.CodeOf(err).String())
			return
		}
		s.metrics.IncAuthorization("issued")
	}()

	owner := requestcontext.AuthenticatedParty(ctx)
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "an authenticated owner is required")
	}

	v, err := s.validator.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	acc, consentReqs := newAccreditation(ctx, owner.Key(), v)

	if err := s.consent.Initiate(ctx, acc, consentReqs); err != nil {
		return nil, err
	}

	s.aggregate(ctx, acc)

	if err := s.store.Create(ctx, acc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store accreditation")
	}

	s.logger.InfoContext(ctx, "accreditation issued",
		"accreditation_id", acc.ID,
		"requestor", acc.Requestor,
		"service_context", acc.ServiceContext,
		"evidence_codes", len(acc.EvidenceCodes),
		"skipped", len(v.SkippedEvidenceCodes()),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.audit.Log(ctx, audit.EventAccreditationIssued, acc.AuditEvent())
	return acc, nil
}

// DirectAccreditation validates req in harvest mode and returns an accreditation
// that is never stored. No consent request is initiated.
func (s *Service) DirectAccreditation(ctx context.Context, req *models.AuthorizationRequest) (*models.Accreditation, error) {
	owner := requestcontext.AuthenticatedParty(ctx)
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "an authenticated owner is required")
	}
	v, err := s.validator.ValidateForHarvest(ctx, req)
	if err != nil {
		return nil, err
	}
	acc, _ := newAccreditation(ctx, owner.Key(), v)
	s.aggregate(ctx, acc)
	return acc, nil
}

func (s *Service) aggregate(ctx context.Context, acc *models.Accreditation) {
	statuses := make([]models.EvidenceStatus, 0, len(acc.EvidenceCodes))
	for i := range acc.EvidenceCodes {
		statuses = append(statuses, s.status.GetStatus(ctx, acc, &acc.EvidenceCodes[i], true))
	}
	aggregate := status.AggregateStatus(statuses)
	acc.AggregateStatus = &aggregate
}

// newAccreditation builds the grant for a validated request and collects the
// consent requirements of its datasets.
func newAccreditation(ctx context.Context, owner string, v *Validation) (*models.Accreditation, []*models.ConsentRequirement) {
	now := requestcontext.Now(ctx)
	validated := v.Request()
	acc := &models.Accreditation{
		ID:                uuid.NewString(),
		Requestor:         validated.RequestorParty,
		Subject:           validated.SubjectParty,
		Owner:             owner,
		ServiceContext:    v.ServiceContext(),
		Issued:            now,
		LastChanged:       now,
		ValidTo:           v.ValidTo(),
		LanguageCode:      validated.LanguageCode,
		ConsentReference:  validated.ConsentReference,
		ExternalReference: validated.ExternalReference,
	}

	var consentReqs []*models.ConsentRequirement
	for _, d := range v.EvidenceCodes() {
		if c := d.ConsentRequirement(acc.ServiceContext); c != nil {
			consentReqs = append(consentReqs, c)
		}
		stored := d.Stripped()
		if er, ok := validated.EvidenceRequest(d.Name); ok {
			attachParameterValues(&stored, er)
		}
		acc.EvidenceCodes = append(acc.EvidenceCodes, stored)
	}
	return acc, consentReqs
}

func attachParameterValues(d *models.EvidenceCodeDescriptor, er *models.EvidenceRequest) {
	for i := range d.Parameters {
		for _, p := range er.Parameters {
			if p.Name == d.Parameters[i].Name {
				d.Parameters[i].Value = p.Value
			}
		}
	}
}
