package validation

import (
	"fmt"

	dErrors "broker/pkg/domain-errors"
)

const (
	// MaxBodySize bounds inbound JSON bodies (256 KB; legal basis documents travel inline).
	MaxBodySize = 256 * 1024

	// MaxEvidenceRequests bounds the datasets requested in one authorization.
	MaxEvidenceRequests = 50

	// MaxParameters bounds the parameters supplied for one dataset.
	MaxParameters = 25

	// MaxReferenceLength bounds consent and external references.
	MaxReferenceLength = 500
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(code dErrors.Code, fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(code, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(code dErrors.Code, fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(code, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
