package models

import (
	"time"

	"broker/pkg/domain"
)

// AsyncAction tells an asynchronous source what the call is for.
type AsyncAction string

const (
	AsyncActionInit        AsyncAction = "init"
	AsyncActionHarvest     AsyncAction = "harvest"
	AsyncActionCheckStatus AsyncAction = "checkStatus"
)

// EvidenceValue is one value returned by a harvest.
type EvidenceValue struct {
	Name      string     `json:"evidenceValueName"`
	ValueType ValueType  `json:"valueType"`
	Value     any        `json:"value,omitempty"`
	Source    string     `json:"source,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Evidence is the result of a buffered harvest.
type Evidence struct {
	Name           string          `json:"name"`
	Timestamp      time.Time       `json:"timestamp"`
	EvidenceStatus EvidenceStatus  `json:"evidenceStatus"`
	Values         []EvidenceValue `json:"evidenceValues"`
}

// HarvesterRequest is the body posted to an evidence source.
type HarvesterRequest struct {
	OrganizationNumber string                   `json:"organizationNumber,omitempty"`
	SubjectParty       *domain.Party            `json:"subjectParty,omitempty"`
	Requestor          string                   `json:"requestor"`
	RequestorParty     domain.Party             `json:"requestorParty"`
	ServiceContext     string                   `json:"serviceContext,omitempty"`
	AccreditationID    string                   `json:"accreditationId,omitempty"`
	EvidenceCodeName   string                   `json:"evidenceCodeName"`
	Parameters         []EvidenceParameterValue `json:"parameters,omitempty"`
	MPToken            string                   `json:"mpToken,omitempty"`
	ConsentJWT         string                   `json:"jwt,omitempty"`
	AsyncAction        AsyncAction              `json:"asyncEvidenceCodeAction,omitempty"`
}

// SourceError is the structured error body an evidence source may return.
type SourceError struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}
