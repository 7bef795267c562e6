package harvest

import (
	"context"
	"time"

	"broker/internal/evidence/models"
	"broker/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Catalog StatusResolver Consent TokenSource RetrievalRecorder

// Catalog resolves the live definition of a dataset.
type Catalog interface {
	Lookup(ctx context.Context, name string) (*models.EvidenceCodeDescriptor, error)
}

type StatusResolver interface {
	GetStatus(ctx context.Context, acc *models.Accreditation, d *models.EvidenceCodeDescriptor, onlyLocalChecks bool) models.EvidenceStatus
}

// Consent supplies the consent token forwarded to sources and records use of consented data.
type Consent interface {
	JWT(ctx context.Context, acc *models.Accreditation) (string, error)
	LogUse(ctx context.Context, acc *models.Accreditation, evidenceCode string) error
}

// TokenSource issues scoped bearer tokens, optionally narrowed to a consumer.
type TokenSource interface {
	Token(ctx context.Context, scopes string, onBehalfOf *domain.Party) (string, error)
}

// RetrievalRecorder appends a data retrieval to a stored accreditation.
type RetrievalRecorder interface {
	RecordRetrieval(ctx context.Context, accreditationID, evidenceCode string, at time.Time) error
}
