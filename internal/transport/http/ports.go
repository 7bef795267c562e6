package httptransport

import (
	"context"
	"io"

	"broker/internal/accreditation"
	"broker/internal/evidence/harvest"
	"broker/internal/evidence/models"
	"broker/internal/servicecontext"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Authorizer Accreditations Harvester Catalog ServiceContexts

// Authorizer issues accreditations.
type Authorizer interface {
	Authorize(ctx context.Context, req *models.AuthorizationRequest) (*models.Accreditation, error)
	DirectAccreditation(ctx context.Context, req *models.AuthorizationRequest) (*models.Accreditation, error)
}

// Accreditations manages stored accreditations for their owners.
type Accreditations interface {
	Get(ctx context.Context, id string) (*models.Accreditation, error)
	Query(ctx context.Context, params accreditation.QueryParams) ([]*models.Accreditation, error)
	Delete(ctx context.Context, id string) error
	Statuses(ctx context.Context, id string) ([]models.EvidenceStatus, error)
	UpdateConsent(ctx context.Context, id string, answer accreditation.ConsentAnswer) (*models.Accreditation, error)
}

// Harvester retrieves datasets from evidence sources.
type Harvester interface {
	Harvest(ctx context.Context, name string, acc *models.Accreditation, opts harvest.Options) (*models.Evidence, error)
	HarvestStream(ctx context.Context, name string, acc *models.Accreditation, opts harvest.Options) (io.ReadCloser, string, error)
	HarvestOpenData(ctx context.Context, d *models.EvidenceCodeDescriptor, identifier string) (*models.Evidence, error)
}

// Catalog exposes the evidence catalog.
type Catalog interface {
	GetCatalog(ctx context.Context, forceRefresh bool) ([]models.EvidenceCodeDescriptor, error)
	GetForServiceContext(ctx context.Context, serviceContext string) ([]models.EvidenceCodeDescriptor, error)
	Lookup(ctx context.Context, name string) (*models.EvidenceCodeDescriptor, error)
}

// ServiceContexts lists the configured service contexts.
type ServiceContexts interface {
	All() []servicecontext.ServiceContext
}
