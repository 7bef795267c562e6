package domainerrors

import (
	"errors"
	"time"
)

// Code represents a broker error kind independent of transport layer.
// The numeric value is stable and is surfaced to API consumers.
type Code int

const (
	CodeInvalidRequestor                Code = 1001
	CodeInvalidSubject                  Code = 1002
	CodeUnknownEvidenceCode             Code = 1003
	CodeInvalidEvidenceRequest          Code = 1004
	CodeInvalidEvidenceRequestParameter Code = 1005
	CodeInvalidLegalBasis               Code = 1006
	CodeInvalidValidToDateTime          Code = 1007
	CodeAuthorizationFailed             Code = 1008
	CodeRequiresConsent                 Code = 1009
	CodeAsyncEvidenceStillWaiting       Code = 1010
	CodeServiceNotAvailable             Code = 1011
	CodeExpiredAccreditation            Code = 1012
	CodeInternal                        Code = 1013
	CodeNonExistentAccreditation        Code = 1014
	CodeInvalidAuthorizationRequest     Code = 1015
	CodeEvidenceSourceError             Code = 1016
	CodeForbidden                       Code = 1017
	CodeUnauthorized                    Code = 1018
	CodeRateLimited                     Code = 1019
)

var codeNames = map[Code]string{
	CodeInvalidRequestor:                "invalid_requestor",
	CodeInvalidSubject:                  "invalid_subject",
	CodeUnknownEvidenceCode:             "unknown_evidence_code",
	CodeInvalidEvidenceRequest:          "invalid_evidence_request",
	CodeInvalidEvidenceRequestParameter: "invalid_evidence_request_parameter",
	CodeInvalidLegalBasis:               "invalid_legal_basis",
	CodeInvalidValidToDateTime:          "invalid_valid_to_date_time",
	CodeAuthorizationFailed:             "authorization_failed",
	CodeRequiresConsent:                 "requires_consent",
	CodeAsyncEvidenceStillWaiting:       "async_evidence_still_waiting",
	CodeServiceNotAvailable:             "service_not_available",
	CodeExpiredAccreditation:            "expired_accreditation",
	CodeInternal:                        "internal_error",
	CodeNonExistentAccreditation:        "non_existent_accreditation",
	CodeInvalidAuthorizationRequest:     "invalid_authorization_request",
	CodeEvidenceSourceError:             "evidence_source_error",
	CodeForbidden:                       "forbidden",
	CodeUnauthorized:                    "unauthorized",
	CodeRateLimited:                     "rate_limited",
}

// String returns the snake_case name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown_error"
}

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error

	// RetryAt is set for CodeAsyncEvidenceStillWaiting when the source gave a hint,
	// and for CodeRateLimited when the bucket resets.
	RetryAt *time.Time
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.String()
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err, RetryAt: existing.RetryAt}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// StillWaiting builds a CodeAsyncEvidenceStillWaiting error carrying the retry hint.
func StillWaiting(msg string, retryAt *time.Time) error {
	return &Error{Code: CodeAsyncEvidenceStillWaiting, Message: msg, RetryAt: retryAt}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
