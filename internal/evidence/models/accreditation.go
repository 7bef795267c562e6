package models

import (
	"time"

	"broker/pkg/domain"
	"broker/pkg/platform/audit"
)

// ConsentDeniedCode is the authorization code sentinel stored when the subject refuses consent.
const ConsentDeniedCode = "denied"

// DataRetrieval records one successful harvest of a dataset.
type DataRetrieval struct {
	EvidenceCodeName string    `json:"evidenceCodeName"`
	Timestamp        time.Time `json:"timestamp"`
}

// Accreditation is an issued, time-bounded grant. EvidenceCodes are stored stripped of requirements.
type Accreditation struct {
	ID                string                   `json:"id"`
	Requestor         domain.Party             `json:"requestor"`
	Subject           *domain.Party            `json:"subject,omitempty"`
	Owner             string                   `json:"owner"`
	ServiceContext    string                   `json:"serviceContext"`
	EvidenceCodes     []EvidenceCodeDescriptor `json:"evidenceCodes"`
	Issued            time.Time                `json:"issued"`
	LastChanged       time.Time                `json:"lastChanged"`
	ValidTo           time.Time                `json:"validTo"`
	LanguageCode      string                   `json:"languageCode,omitempty"`
	AuthorizationCode string                   `json:"authorizationCode,omitempty"`
	ConsentRequestID  string                   `json:"consentRequestId,omitempty"`
	ConsentReference  string                   `json:"consentReference,omitempty"`
	ExternalReference string                   `json:"externalReference,omitempty"`
	AggregateStatus   *EvidenceStatusCode      `json:"aggregateStatus,omitempty"`
	DataRetrievals    []DataRetrieval          `json:"dataRetrievals,omitempty"`
}

// EvidenceCode returns the stored descriptor for name.
func (a *Accreditation) EvidenceCode(name string) (*EvidenceCodeDescriptor, bool) {
	for i := range a.EvidenceCodes {
		if a.EvidenceCodes[i].Name == name {
			return &a.EvidenceCodes[i], true
		}
	}
	return nil, false
}

// IsExpired reports whether the grant is past its validity end.
func (a *Accreditation) IsExpired(now time.Time) bool {
	return !now.Before(a.ValidTo)
}

// SubjectKey returns the subject identifier or "" for anonymous subjects.
func (a *Accreditation) SubjectKey() string {
	if a.Subject == nil {
		return ""
	}
	return a.Subject.Key()
}

// AuditEvent describes this accreditation for the audit trail. Without names
// it lists every dataset the accreditation covers.
func (a *Accreditation) AuditEvent(evidenceCodes ...string) audit.Event {
	if len(evidenceCodes) == 0 {
		for _, d := range a.EvidenceCodes {
			evidenceCodes = append(evidenceCodes, d.Name)
		}
	}
	return audit.Event{
		AccreditationID: a.ID,
		Owner:           a.Owner,
		Requestor:       a.Requestor.Key(),
		Subject:         a.SubjectKey(),
		ServiceContext:  a.ServiceContext,
		EvidenceCodes:   evidenceCodes,
	}
}

// HarvesterRequest builds the body sent to the source of d on behalf of this accreditation.
func (a *Accreditation) HarvesterRequest(d *EvidenceCodeDescriptor, action AsyncAction) HarvesterRequest {
	hr := HarvesterRequest{
		SubjectParty:     a.Subject,
		Requestor:        a.Requestor.Key(),
		RequestorParty:   a.Requestor,
		ServiceContext:   a.ServiceContext,
		AccreditationID:  a.ID,
		EvidenceCodeName: d.UpstreamName(),
	}
	if a.Subject != nil {
		hr.OrganizationNumber = a.Subject.NorwegianOrganizationNumber
	}
	if d.IsAsynchronous {
		hr.AsyncAction = action
	}
	for _, p := range d.Parameters {
		if p.Value != nil {
			hr.Parameters = append(hr.Parameters, EvidenceParameterValue{Name: p.Name, Value: p.Value})
		}
	}
	return hr
}
