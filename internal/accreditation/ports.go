package accreditation

import (
	"context"

	"broker/internal/accreditation/store"
	"broker/internal/evidence/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Store StatusResolver

// Store is the persistence port. Implementations follow the store package error contract.
type Store interface {
	Create(ctx context.Context, acc *models.Accreditation) error
	Get(ctx context.Context, id string) (*models.Accreditation, error)
	Execute(ctx context.Context, id string, mutate func(*models.Accreditation) error) (*models.Accreditation, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, q store.Query) ([]*models.Accreditation, error)
}

// StatusResolver computes the dataset statuses of an accreditation.
type StatusResolver interface {
	GetStatusList(ctx context.Context, acc *models.Accreditation) []models.EvidenceStatus
}
