package models

import "time"

// EvidenceStatusCode is the availability state of a dataset within an accreditation.
type EvidenceStatusCode int

const (
	StatusAvailable        EvidenceStatusCode = 1
	StatusPendingConsent   EvidenceStatusCode = 2
	StatusDenied           EvidenceStatusCode = 3
	StatusExpired          EvidenceStatusCode = 4
	StatusWaiting          EvidenceStatusCode = 5
	StatusUnavailable      EvidenceStatusCode = 6
	StatusAggregateUnknown EvidenceStatusCode = 7
)

func (c EvidenceStatusCode) String() string {
	switch c {
	case StatusAvailable:
		return "Available"
	case StatusPendingConsent:
		return "PendingConsent"
	case StatusDenied:
		return "Denied"
	case StatusExpired:
		return "Expired"
	case StatusWaiting:
		return "Waiting"
	case StatusUnavailable:
		return "Unavailable"
	case StatusAggregateUnknown:
		return "AggregateUnknown"
	default:
		return "Unknown"
	}
}

// EvidenceStatus is computed on demand and never persisted as the source of truth.
type EvidenceStatus struct {
	EvidenceCodeName string             `json:"evidenceCodeName"`
	Status           EvidenceStatusCode `json:"status"`
	Description      string             `json:"description,omitempty"`
	RetryAt          *time.Time         `json:"retryAt,omitempty"`
}

// NewStatus builds a status with the code's default description.
func NewStatus(name string, code EvidenceStatusCode) EvidenceStatus {
	return EvidenceStatus{EvidenceCodeName: name, Status: code, Description: code.String()}
}
