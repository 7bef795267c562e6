package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "broker/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"unknown evidence code", dErrors.New(dErrors.CodeUnknownEvidenceCode, "no such code"), http.StatusBadRequest, 1003},
		{"authorization failed", dErrors.New(dErrors.CodeAuthorizationFailed, "denied"), http.StatusForbidden, 1008},
		{"non-existent accreditation", dErrors.New(dErrors.CodeNonExistentAccreditation, "gone"), http.StatusNotFound, 1014},
		{"rate limited", dErrors.New(dErrors.CodeRateLimited, "slow down"), http.StatusTooManyRequests, 1019},
		{"upstream down", dErrors.New(dErrors.CodeServiceNotAvailable, "timeout"), http.StatusServiceUnavailable, 1011},
		{"source error", dErrors.New(dErrors.CodeEvidenceSourceError, "bad"), http.StatusBadGateway, 1016},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, 1013},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Empty(t, body.Details)
		})
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: relation does not exist"))

	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestWriteErrorWithDetails(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	rec := httptest.NewRecorder()
	WriteErrorWithDetails(rec, dErrors.Wrap(cause, dErrors.CodeServiceNotAvailable, "registry unavailable"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "registry unavailable", body.Description)
	assert.Equal(t, "dial tcp: connection refused", body.Details)
}

func TestWriteError_RetryAfter(t *testing.T) {
	retryAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.StillWaiting("still waiting", &retryAt))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, retryAt.Format(http.TimeFormat), rec.Header().Get("Retry-After"))
}

type sampleRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *sampleRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":" x "}`))
		req, err := DecodeAndValidate[sampleRequest](r, dErrors.CodeInvalidAuthorizationRequest)
		require.NoError(t, err)
		assert.Equal(t, "x", req.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		_, err := DecodeAndValidate[sampleRequest](r, dErrors.CodeInvalidAuthorizationRequest)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAuthorizationRequest))
	})

	t.Run("blank after normalize", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(fmt.Sprintf(`{"name":%q}`, "   ")))
		_, err := DecodeAndValidate[sampleRequest](r, dErrors.CodeInvalidAuthorizationRequest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})
}
