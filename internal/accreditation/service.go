// Package accreditation manages issued accreditations on behalf of their owners.
package accreditation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"broker/internal/accreditation/store"
	"broker/internal/evidence/models"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/audit"
	"broker/pkg/requestcontext"
)

// Service reads and mutates stored accreditations. Every owner-facing
// operation checks the authenticated party against the accreditation owner.
type Service struct {
	store  Store
	status StatusResolver
	logger *slog.Logger
	audit  *audit.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditLogger records deletions, consent answers and retrievals on the audit trail.
func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func New(st Store, statuses StatusResolver, opts ...Option) *Service {
	if st == nil {
		panic("accreditation.New: store is required")
	}
	if statuses == nil {
		panic("accreditation.New: status resolver is required")
	}
	s := &Service{
		store:  st,
		status: statuses,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the accreditation if the caller owns it.
func (s *Service) Get(ctx context.Context, id string) (*models.Accreditation, error) {
	owner, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.Owner != owner {
		return nil, dErrors.New(dErrors.CodeForbidden, "accreditation belongs to another party")
	}
	return acc, nil
}

// QueryParams narrows an owner's accreditation listing.
type QueryParams struct {
	Requestor    string
	ChangedAfter *time.Time
}

// Query lists the caller's valid accreditations in the current service context.
func (s *Service) Query(ctx context.Context, params QueryParams) ([]*models.Accreditation, error) {
	owner, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	sc := requestcontext.ServiceContext(ctx)
	if sc == "" {
		return nil, dErrors.New(dErrors.CodeInvalidAuthorizationRequest, "service context is required")
	}
	list, err := s.store.Query(ctx, store.Query{
		Owner:          owner,
		ServiceContext: sc,
		Requestor:      params.Requestor,
		ChangedAfter:   params.ChangedAfter,
		Now:            requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query accreditations")
	}
	return list, nil
}

// Delete removes an accreditation owned by the caller.
func (s *Service) Delete(ctx context.Context, id string) error {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNonExistentAccreditation, "accreditation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete accreditation")
	}
	s.logger.InfoContext(ctx, "accreditation deleted",
		"accreditation_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.audit.Log(ctx, audit.EventAccreditationDeleted, acc.AuditEvent())
	return nil
}

// Statuses resolves every dataset of an owned, unexpired accreditation.
func (s *Service) Statuses(ctx context.Context, id string) ([]models.EvidenceStatus, error) {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.IsExpired(requestcontext.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeExpiredAccreditation, "accreditation has expired")
	}
	return s.status.GetStatusList(ctx, acc), nil
}

// RecordRetrieval appends a data retrieval to the accreditation.
func (s *Service) RecordRetrieval(ctx context.Context, accreditationID, evidenceCode string, at time.Time) error {
	acc, err := s.store.Execute(ctx, accreditationID, func(acc *models.Accreditation) error {
		acc.DataRetrievals = append(acc.DataRetrievals, models.DataRetrieval{
			EvidenceCodeName: evidenceCode,
			Timestamp:        at,
		})
		acc.LastChanged = at
		return nil
	})
	if err != nil {
		return translate(err, "failed to record data retrieval")
	}
	event := acc.AuditEvent(evidenceCode)
	event.Timestamp = at
	s.audit.Log(ctx, audit.EventDataRetrieved, event)
	return nil
}

// ConsentAnswer is the subject's reply to a consent request. A denied answer
// carries no code.
type ConsentAnswer struct {
	AuthorizationCode string
	Denied            bool
}

// UpdateConsent stores the consent outcome on the accreditation.
// Only the owner or the subject may answer.
func (s *Service) UpdateConsent(ctx context.Context, id string, answer ConsentAnswer) (*models.Accreditation, error) {
	caller, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	if !answer.Denied && answer.AuthorizationCode == "" {
		return nil, dErrors.New(dErrors.CodeInvalidAuthorizationRequest, "authorization code is required")
	}
	now := requestcontext.Now(ctx)
	acc, err := s.store.Execute(ctx, id, func(acc *models.Accreditation) error {
		if caller != acc.Owner && caller != acc.SubjectKey() {
			return dErrors.New(dErrors.CodeForbidden, "caller is neither owner nor subject of the accreditation")
		}
		if acc.IsExpired(now) {
			return dErrors.New(dErrors.CodeExpiredAccreditation, "accreditation has expired")
		}
		if answer.Denied {
			acc.AuthorizationCode = models.ConsentDeniedCode
		} else {
			acc.AuthorizationCode = answer.AuthorizationCode
		}
		acc.LastChanged = now
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to update consent")
	}
	s.logger.InfoContext(ctx, "consent answer recorded",
		"accreditation_id", id,
		"denied", answer.Denied,
		"request_id", requestcontext.RequestID(ctx),
	)
	event := acc.AuditEvent()
	event.Decision = audit.DecisionGranted
	if answer.Denied {
		event.Decision = audit.DecisionDenied
	}
	s.audit.Log(ctx, audit.EventConsentAnswered, event)
	return acc, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Accreditation, error) {
	acc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load accreditation")
	}
	return acc, nil
}

func translate(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return dErrors.New(dErrors.CodeNonExistentAccreditation, "accreditation not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func owner(ctx context.Context) (string, error) {
	p := requestcontext.AuthenticatedParty(ctx)
	if p.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "no authenticated party")
	}
	return p.Key(), nil
}
