package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "broker/pkg/domain-errors"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into a response carrying its stable numeric code.
func WriteError(w http.ResponseWriter, err error) {
	writeError(w, err, false)
}

// WriteErrorWithDetails is WriteError plus the full error chain, for development mode only.
func WriteErrorWithDetails(w http.ResponseWriter, err error) {
	writeError(w, err, true)
}

func writeError(w http.ResponseWriter, err error, details bool) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		domainErr = &dErrors.Error{Code: dErrors.CodeInternal, Message: "internal server error", Err: err}
	}

	resp := ErrorResponse{
		Code:        int(domainErr.Code),
		Description: domainErr.Error(),
	}
	if domainErr.Code == dErrors.CodeInternal && domainErr.Message == "" {
		resp.Description = "internal server error"
	}
	if details && err != nil {
		resp.Details = err.Error()
		if domainErr.Err != nil {
			resp.Details = domainErr.Err.Error()
		}
	}
	if domainErr.RetryAt != nil {
		w.Header().Set("Retry-After", domainErr.RetryAt.UTC().Format(http.TimeFormat))
	}
	WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), resp)
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidRequestor,
		dErrors.CodeInvalidSubject,
		dErrors.CodeUnknownEvidenceCode,
		dErrors.CodeInvalidEvidenceRequest,
		dErrors.CodeInvalidEvidenceRequestParameter,
		dErrors.CodeInvalidLegalBasis,
		dErrors.CodeInvalidValidToDateTime,
		dErrors.CodeInvalidAuthorizationRequest:
		return http.StatusBadRequest
	case dErrors.CodeAuthorizationFailed, dErrors.CodeRequiresConsent, dErrors.CodeForbidden, dErrors.CodeExpiredAccreditation:
		return http.StatusForbidden
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNonExistentAccreditation:
		return http.StatusNotFound
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeAsyncEvidenceStillWaiting:
		return http.StatusAccepted
	case dErrors.CodeServiceNotAvailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeEvidenceSourceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
