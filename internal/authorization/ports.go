package authorization

import (
	"context"

	"broker/internal/entityregistry"
	"broker/internal/evidence/models"
	"broker/internal/servicecontext"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Catalog PolicyEngine EntityRegistry ServiceContexts ConsentInitiator StatusResolver AccreditationStore

// Catalog supplies the current dataset definitions.
type Catalog interface {
	GetCatalog(ctx context.Context, forceRefresh bool) ([]models.EvidenceCodeDescriptor, error)
}

// PolicyEngine evaluates authorization requirements.
type PolicyEngine interface {
	ValidateRequirements(ctx context.Context, perDataset map[string]models.Requirements, req *models.AuthorizationRequest) ([]string, map[string]models.Requirement, error)
}

// EntityRegistry looks up registered organizations. A missing unit is sentinel.ErrNotFound.
type EntityRegistry interface {
	Lookup(ctx context.Context, orgNo string) (*entityregistry.Unit, error)
}

type ServiceContexts interface {
	Get(name string) (servicecontext.ServiceContext, bool)
}

// ConsentInitiator creates a consent request for the consent-gated datasets of acc.
type ConsentInitiator interface {
	Initiate(ctx context.Context, acc *models.Accreditation, reqs []*models.ConsentRequirement) error
}

type StatusResolver interface {
	GetStatus(ctx context.Context, acc *models.Accreditation, d *models.EvidenceCodeDescriptor, onlyLocalChecks bool) models.EvidenceStatus
}

// AccreditationStore persists issued accreditations.
type AccreditationStore interface {
	Create(ctx context.Context, acc *models.Accreditation) error
}
