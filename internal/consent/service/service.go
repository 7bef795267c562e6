// Package service coordinates consent for consent-gated datasets: creating
// consent requests, resolving consent status, fetching the consent token sent
// to evidence sources and logging use.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Backend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"broker/internal/consent/models"
	evmodels "broker/internal/evidence/models"
	"broker/internal/platform/httpclient"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/requestcontext"
)

// Backend is the consent backend's API.
type Backend interface {
	Initiate(ctx context.Context, req models.InitiateRequest) (string, error)
	Status(ctx context.Context, req models.CodeRequest) (models.Status, error)
	Token(ctx context.Context, req models.CodeRequest) (string, error)
	LogUse(ctx context.Context, rec models.UseRecord) error
}

// tokenSkew is subtracted from a consent token's expiry before it is reused.
const tokenSkew = 30 * time.Second

type cachedToken struct {
	token     string
	expiresAt time.Time
}

type Service struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(backend Backend, opts ...Option) *Service {
	if backend == nil {
		panic("consent: backend is required")
	}
	s := &Service{
		backend: backend,
		logger:  slog.Default(),
		tokens:  make(map[string]cachedToken),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status resolves the consent state of an accreditation. Local facts decide
// first: no code is Pending, the denied sentinel is Denied and an expired
// accreditation is Expired. Only then is the backend asked.
func (s *Service) Status(ctx context.Context, acc *evmodels.Accreditation) (models.Status, error) {
	switch {
	case acc.AuthorizationCode == "":
		return models.StatusPending, nil
	case acc.AuthorizationCode == evmodels.ConsentDeniedCode:
		return models.StatusDenied, nil
	case acc.IsExpired(requestcontext.Now(ctx)):
		return models.StatusExpired, nil
	}

	status, err := s.backend.Status(ctx, s.codeRequest(acc))
	if err != nil {
		s.logger.WarnContext(ctx, "consent status lookup failed",
			"accreditation_id", acc.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return "", httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "consent status unavailable")
	}
	switch status {
	case models.StatusGranted, models.StatusRevoked, models.StatusExpired, models.StatusDenied, models.StatusPending:
		return status, nil
	default:
		return "", dErrors.New(dErrors.CodeServiceNotAvailable, "consent backend returned unknown status "+string(status))
	}
}

// JWT returns the consent token for acc, reusing a cached token until shortly before it expires.
func (s *Service) JWT(ctx context.Context, acc *evmodels.Accreditation) (string, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	cached, ok := s.tokens[acc.ID]
	s.mu.Unlock()
	if ok && now.Before(cached.expiresAt) {
		return cached.token, nil
	}

	token, err := s.backend.Token(ctx, s.codeRequest(acc))
	if err != nil {
		return "", httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "consent token unavailable")
	}
	if exp, ok := tokenExpiry(token); ok {
		s.mu.Lock()
		s.tokens[acc.ID] = cachedToken{token: token, expiresAt: exp.Add(-tokenSkew)}
		s.mu.Unlock()
	}
	return token, nil
}

// LogUse records that consented data was retrieved.
func (s *Service) LogUse(ctx context.Context, acc *evmodels.Accreditation, evidenceCode string) error {
	err := s.backend.LogUse(ctx, models.UseRecord{
		AuthorizationCode: acc.AuthorizationCode,
		EvidenceCodeName:  evidenceCode,
		Timestamp:         requestcontext.Now(ctx),
	})
	if err != nil {
		return httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "consent use logging failed")
	}
	return nil
}

// Initiate creates a consent request covering every requirement and stores its id on acc.
func (s *Service) Initiate(ctx context.Context, acc *evmodels.Accreditation, reqs []*evmodels.ConsentRequirement) error {
	if len(reqs) == 0 {
		return nil
	}
	if acc.Subject == nil {
		return dErrors.New(dErrors.CodeInvalidSubject, "consent requires a subject")
	}

	body := models.InitiateRequest{
		AccreditationID:   acc.ID,
		CoveredBy:         acc.Requestor.Key(),
		OfferedBy:         acc.Subject.Key(),
		ValidTo:           acc.ValidTo,
		LanguageCode:      acc.LanguageCode,
		ConsentReference:  acc.ConsentReference,
		ExternalReference: acc.ExternalReference,
	}
	seen := make(map[models.Right]struct{}, len(reqs))
	for _, r := range reqs {
		right := models.Right{ServiceCode: r.ServiceCode, ServiceEdition: r.ServiceEdition}
		if _, dup := seen[right]; !dup {
			seen[right] = struct{}{}
			body.Rights = append(body.Rights, right)
		}
		body.RequiresSrr = body.RequiresSrr || r.RequiresSrr
	}

	id, err := s.backend.Initiate(ctx, body)
	if err != nil {
		return httpclient.ToDomain(err, dErrors.CodeServiceNotAvailable, "consent request could not be created")
	}
	acc.ConsentRequestID = id
	s.logger.InfoContext(ctx, "consent request created",
		"accreditation_id", acc.ID,
		"consent_request_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) codeRequest(acc *evmodels.Accreditation) models.CodeRequest {
	return models.CodeRequest{
		AuthorizationCode: acc.AuthorizationCode,
		CoveredBy:         acc.Requestor.Key(),
		OfferedBy:         acc.SubjectKey(),
	}
}

// tokenExpiry reads exp without verifying the signature; the token is only
// forwarded, the evidence source verifies it.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
