package models

import (
	"time"

	"broker/pkg/domain"
)

// LegalBasisType classifies a supplied legal basis document.
type LegalBasisType string

const (
	LegalBasisESPD LegalBasisType = "ESPD"
	LegalBasisCPV  LegalBasisType = "CPV"
)

// LegalBasis is a supplied document that may substitute for consent.
type LegalBasis struct {
	ID      string         `json:"id"`
	Type    LegalBasisType `json:"type"`
	Content string         `json:"content"`
}

// EvidenceParameterValue is one supplied parameter. Value keeps its JSON type.
type EvidenceParameterValue struct {
	Name  string `json:"evidenceParamName"`
	Value any    `json:"value"`
}

// EvidenceRequest asks for one dataset.
type EvidenceRequest struct {
	EvidenceCodeName string                   `json:"evidenceCodeName"`
	Parameters       []EvidenceParameterValue `json:"parameters,omitempty"`
	LegalBasisID     string                   `json:"legalBasisId,omitempty"`
	RequestConsent   bool                     `json:"requestConsent,omitempty"`
}

// AuthorizationRequest is a request for an accreditation. Each evidence code name appears at most once.
type AuthorizationRequest struct {
	Requestor         string            `json:"requestor"`
	Subject           string            `json:"subject,omitempty"`
	EvidenceRequests  []EvidenceRequest `json:"evidenceRequests"`
	LegalBasisList    []LegalBasis      `json:"legalBasisList,omitempty"`
	ValidTo           *time.Time        `json:"validTo,omitempty"`
	LanguageCode      string            `json:"languageCode,omitempty"`
	ConsentReference  string            `json:"consentReference,omitempty"`
	ExternalReference string            `json:"externalReference,omitempty"`

	// Populated by validation.
	RequestorParty domain.Party  `json:"-"`
	SubjectParty   *domain.Party `json:"-"`
}

// EvidenceRequest looks up the request for a dataset name.
func (r *AuthorizationRequest) EvidenceRequest(name string) (*EvidenceRequest, bool) {
	for i := range r.EvidenceRequests {
		if r.EvidenceRequests[i].EvidenceCodeName == name {
			return &r.EvidenceRequests[i], true
		}
	}
	return nil, false
}

// LegalBasis looks up a supplied legal basis by id.
func (r *AuthorizationRequest) LegalBasis(id string) (*LegalBasis, bool) {
	for i := range r.LegalBasisList {
		if r.LegalBasisList[i].ID == id {
			return &r.LegalBasisList[i], true
		}
	}
	return nil, false
}

// RemoveEvidenceRequests drops the named datasets from the request.
func (r *AuthorizationRequest) RemoveEvidenceRequests(names map[string]struct{}) {
	kept := r.EvidenceRequests[:0]
	for _, er := range r.EvidenceRequests {
		if _, drop := names[er.EvidenceCodeName]; !drop {
			kept = append(kept, er)
		}
	}
	r.EvidenceRequests = kept
}
