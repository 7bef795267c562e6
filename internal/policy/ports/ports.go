// Package ports declares the collaborators the policy engine consults.
// Adapters live with the collaborator (delegation, entityregistry, config).
package ports

import (
	"context"

	"broker/internal/evidence/models"
	"broker/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks Delegation PartyClassifier AllowLists LegalBasisValidator

// Delegation answers role and rights questions against the delegation registry.
// A false answer with nil error means the delegation does not exist.
type Delegation interface {
	HasRole(ctx context.Context, coveredBy, offeredBy domain.Party, roleCode string) (bool, error)
	HasRights(ctx context.Context, coveredBy, offeredBy domain.Party, serviceCode, serviceEdition string, rights []string) (bool, error)
}

// PartyClassifier determines the PartyType of a party.
type PartyClassifier interface {
	Classify(ctx context.Context, p domain.Party) (models.PartyTypeName, error)
}

// AllowLists exposes configured identifier lists by key.
type AllowLists interface {
	AllowList(key string) ([]string, bool)
}

// LegalBasisValidator checks the content of one legal basis type.
type LegalBasisValidator interface {
	Validate(content string) error
}
