package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"broker/internal/sentinel"
	dErrors "broker/pkg/domain-errors"
)

// ErrorCategory is the normalized failure taxonomy for upstream calls.
type ErrorCategory string

const (
	// ErrorTimeout means the upstream did not answer before the deadline.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorOutage means the upstream could not be reached or answered 5xx/429.
	ErrorOutage ErrorCategory = "outage"

	// ErrorCircuitOpen means the call was rejected locally by an open breaker.
	ErrorCircuitOpen ErrorCategory = "circuit_open"

	// ErrorBadData means the upstream answered with something we could not decode.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication means the upstream rejected our credentials.
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorNotFound means the upstream answered 404.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRejected covers every other 4xx answer.
	ErrorRejected ErrorCategory = "rejected"

	// ErrorInternal is a local failure building or sending the request.
	ErrorInternal ErrorCategory = "internal"
)

// ErrCircuitOpen is returned by Client.Do when the upstream host's breaker is open.
var ErrCircuitOpen = fmt.Errorf("%w: circuit open", sentinel.ErrUnavailable)

// UpstreamError wraps upstream failures with a category so callers can
// translate them without inspecting transport errors.
type UpstreamError struct {
	Category   ErrorCategory
	Upstream   string
	StatusCode int
	Message    string
	// Body holds the (size-limited) response body for non-2xx answers.
	Body       []byte
	Underlying error
}

func (e *UpstreamError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("upstream %s [%s]: %s: %v", e.Upstream, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("upstream %s [%s]: %s", e.Upstream, e.Category, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Underlying
}

// Transient reports whether the failure is an availability problem rather than a rejection.
func (e *UpstreamError) Transient() bool {
	switch e.Category {
	case ErrorTimeout, ErrorOutage, ErrorCircuitOpen:
		return true
	default:
		return false
	}
}

func NewUpstreamError(category ErrorCategory, upstream, message string, underlying error) *UpstreamError {
	return &UpstreamError{
		Category:   category,
		Upstream:   upstream,
		Message:    message,
		Underlying: underlying,
	}
}

// classifyTransport turns an error returned by Doer.Do into an UpstreamError.
func classifyTransport(ctx context.Context, upstream string, err error) *UpstreamError {
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return NewUpstreamError(ErrorCircuitOpen, upstream, "circuit open", err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewUpstreamError(ErrorTimeout, upstream, "request timeout", err)
	default:
		return NewUpstreamError(ErrorOutage, upstream, "request failed", err)
	}
}

// classifyStatus maps a non-2xx status to a category.
func classifyStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorAuthentication
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		return ErrorOutage
	default:
		return ErrorRejected
	}
}

// AsUpstreamError extracts an UpstreamError from err's chain.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// ToDomain translates an upstream failure into a domain error exactly once.
// Availability problems become ServiceNotAvailable; everything else falls back to code.
func ToDomain(err error, code dErrors.Code, msg string) error {
	if err == nil {
		return nil
	}
	if ue, ok := AsUpstreamError(err); ok && ue.Transient() {
		return dErrors.Wrap(err, dErrors.CodeServiceNotAvailable, msg)
	}
	if errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeServiceNotAvailable, msg)
	}
	return dErrors.Wrap(err, code, msg)
}
