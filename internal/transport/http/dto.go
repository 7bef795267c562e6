package httptransport

import (
	"strings"
	"time"

	"broker/internal/evidence/models"
	"broker/internal/servicecontext"
)

type legalBasisDTO struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type parameterDTO struct {
	Name  string `json:"evidenceParamName"`
	Value any    `json:"value"`
}

type evidenceRequestDTO struct {
	EvidenceCodeName string         `json:"evidenceCodeName"`
	Parameters       []parameterDTO `json:"parameters"`
	LegalBasisID     string         `json:"legalBasisId"`
	RequestConsent   bool           `json:"requestConsent"`
}

// AuthorizationRequest is the body of POST /authorization. Only transport
// limits are checked here; the authorization validator owns the semantics.
type AuthorizationRequest struct {
	Requestor         string               `json:"requestor"`
	Subject           string               `json:"subject"`
	EvidenceRequests  []evidenceRequestDTO `json:"evidenceRequests" validate:"max=50"`
	LegalBasisList    []legalBasisDTO      `json:"legalBasisList" validate:"max=20"`
	ValidTo           *time.Time           `json:"validTo"`
	LanguageCode      string               `json:"languageCode"`
	ConsentReference  string               `json:"consentReference" validate:"max=200"`
	ExternalReference string               `json:"externalReference" validate:"max=200"`
}

// Normalize trims identifiers. Evidence code names are case sensitive and kept verbatim.
func (r *AuthorizationRequest) Normalize() {
	r.Requestor = strings.TrimSpace(r.Requestor)
	r.Subject = strings.TrimSpace(r.Subject)
	r.LanguageCode = strings.ToLower(strings.TrimSpace(r.LanguageCode))
}

func (r *AuthorizationRequest) toModel() *models.AuthorizationRequest {
	out := &models.AuthorizationRequest{
		Requestor:         r.Requestor,
		Subject:           r.Subject,
		ValidTo:           r.ValidTo,
		LanguageCode:      r.LanguageCode,
		ConsentReference:  r.ConsentReference,
		ExternalReference: r.ExternalReference,
	}
	for _, er := range r.EvidenceRequests {
		req := models.EvidenceRequest{
			EvidenceCodeName: er.EvidenceCodeName,
			LegalBasisID:     er.LegalBasisID,
			RequestConsent:   er.RequestConsent,
		}
		for _, p := range er.Parameters {
			req.Parameters = append(req.Parameters, models.EvidenceParameterValue{Name: p.Name, Value: p.Value})
		}
		out.EvidenceRequests = append(out.EvidenceRequests, req)
	}
	for _, lb := range r.LegalBasisList {
		out.LegalBasisList = append(out.LegalBasisList, models.LegalBasis{
			ID:      lb.ID,
			Type:    models.LegalBasisType(lb.Type),
			Content: lb.Content,
		})
	}
	return out
}

// ConsentAnswerRequest is the body of POST /accreditations/{id}/consent.
type ConsentAnswerRequest struct {
	AuthorizationCode string `json:"authorizationCode" validate:"required_without=Denied"`
	Denied            bool   `json:"denied"`
}

// Normalize trims the authorization code.
func (r *ConsentAnswerRequest) Normalize() {
	r.AuthorizationCode = strings.TrimSpace(r.AuthorizationCode)
}

type serviceContextResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	ValidLanguages []string            `json:"validLanguages"`
	Requirements   models.Requirements `json:"authorizationRequirements,omitempty"`
}

func toServiceContextResponses(list []servicecontext.ServiceContext) []serviceContextResponse {
	out := make([]serviceContextResponse, 0, len(list))
	for _, sc := range list {
		out = append(out, serviceContextResponse{
			ID:             sc.ID,
			Name:           sc.Name,
			ValidLanguages: sc.Languages(),
			Requirements:   sc.Requirements,
		})
	}
	return out
}

type refreshResponse struct {
	EvidenceCodes int `json:"evidenceCodes"`
}
