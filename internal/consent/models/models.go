// Package models holds the consent backend's vocabulary.
package models

import "time"

// Status is the state of a subject's consent as seen by the backend.
type Status string

const (
	StatusPending Status = "Pending"
	StatusGranted Status = "Granted"
	StatusDenied  Status = "Denied"
	StatusRevoked Status = "Revoked"
	StatusExpired Status = "Expired"
)

// Right is one service the consent covers.
type Right struct {
	ServiceCode    string `json:"serviceCode"`
	ServiceEdition string `json:"serviceEdition"`
}

// InitiateRequest asks the backend to create a consent request for a subject.
type InitiateRequest struct {
	AccreditationID   string    `json:"accreditationId"`
	CoveredBy         string    `json:"coveredBy"`
	OfferedBy         string    `json:"offeredBy"`
	ValidTo           time.Time `json:"validTo"`
	Rights            []Right   `json:"rights"`
	LanguageCode      string    `json:"languageCode,omitempty"`
	ConsentReference  string    `json:"consentReference,omitempty"`
	ExternalReference string    `json:"externalReference,omitempty"`
	RequiresSrr       bool      `json:"requiresSrr,omitempty"`
}

// InitiateResponse carries the backend's id for the created request.
type InitiateResponse struct {
	ID string `json:"id"`
}

// CodeRequest identifies a consent by its authorization code and parties.
type CodeRequest struct {
	AuthorizationCode string `json:"authorizationCode"`
	CoveredBy         string `json:"coveredBy"`
	OfferedBy         string `json:"offeredBy"`
}

type StatusResponse struct {
	Status Status `json:"status"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UseRecord is logged with the backend after consented data was retrieved.
type UseRecord struct {
	AuthorizationCode string    `json:"authorizationCode"`
	EvidenceCodeName  string    `json:"evidenceCodeName"`
	Timestamp         time.Time `json:"timestamp"`
}
