package audit

import "time"

// Event records one change in an accreditation's lifecycle. It stays
// transport-agnostic; the outbox carries it to Kafka as JSON.
type Event struct {
	Timestamp       time.Time `json:"timestamp"`
	Action          string    `json:"action"`
	AccreditationID string    `json:"accreditationId"`
	Owner           string    `json:"owner,omitempty"`
	Requestor       string    `json:"requestor,omitempty"`
	Subject         string    `json:"subject,omitempty"`
	ServiceContext  string    `json:"serviceContext,omitempty"`
	EvidenceCodes   []string  `json:"evidenceCodes,omitempty"`
	Decision        string    `json:"decision,omitempty"`
	RequestID       string    `json:"requestId,omitempty"`
}

type AuditEvent string

const (
	EventAccreditationIssued  AuditEvent = "accreditation_issued"
	EventAccreditationDeleted AuditEvent = "accreditation_deleted"
	EventConsentAnswered      AuditEvent = "consent_answered"
	EventDataRetrieved        AuditEvent = "data_retrieved"
)

// EventCategory separates events a compliance officer must be able to replay
// from high-volume operational ones.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategoryOperations EventCategory = "operations"
)

// Category classifies the event. Unknown events fall back to operations.
func (e AuditEvent) Category() EventCategory {
	switch e {
	case EventAccreditationIssued, EventAccreditationDeleted, EventConsentAnswered:
		return CategoryCompliance
	default:
		return CategoryOperations
	}
}

// Decision values carried on consent_answered events.
const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
)
