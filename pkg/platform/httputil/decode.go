package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/validation"
)

// DecodeJSON decodes a JSON request body into T. Malformed bodies yield a
// domain error with the given code.
func DecodeJSON[T any](r *http.Request, code dErrors.Code) (*T, error) {
	var req T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, dErrors.Wrap(err, code, "request body too large")
		}
		return nil, dErrors.Wrap(err, code, "invalid request body")
	}
	return &req, nil
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// DecodeAndValidate decodes the body, normalizes it when supported and runs struct-tag validation.
func DecodeAndValidate[T any](r *http.Request, code dErrors.Code) (*T, error) {
	req, err := DecodeJSON[T](r, code)
	if err != nil {
		return nil, err
	}
	if n, ok := any(req).(Normalizable); ok {
		n.Normalize()
	}
	if err := validation.Validate(req, code); err != nil {
		return nil, err
	}
	return req, nil
}
