package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "broker/pkg/domain-errors"
)

type dto struct {
	Requestor string   `json:"requestor" validate:"notblank"`
	Requests  []string `json:"evidenceRequests" validate:"required,min=1"`
	Language  string   `json:"languageCode,omitempty" validate:"omitempty,oneof=nb nn en"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      dto
		wantMsg string
	}{
		{"ok", dto{Requestor: "991825827", Requests: []string{"a"}}, ""},
		{"blank requestor", dto{Requestor: "  ", Requests: []string{"a"}}, "requestor must not be blank"},
		{"empty list", dto{Requestor: "x", Requests: []string{}}, "evidenceRequests must have at least 1 entries"},
		{"bad language", dto{Requestor: "x", Requests: []string{"a"}, Language: "de"}, "languageCode must be one of [nb nn en]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.in, dErrors.CodeInvalidAuthorizationRequest)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAuthorizationRequest))
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestLimits(t *testing.T) {
	assert.NoError(t, CheckSliceCount(dErrors.CodeInvalidEvidenceRequest, "evidence requests", 2, MaxEvidenceRequests))
	err := CheckSliceCount(dErrors.CodeInvalidEvidenceRequest, "evidence requests", MaxEvidenceRequests+1, MaxEvidenceRequests)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidEvidenceRequest))

	err = CheckStringLength(dErrors.CodeInvalidAuthorizationRequest, "consentReference", "abcdef", 3)
	assert.EqualError(t, err, "consentReference exceeds max length of 3")
}
