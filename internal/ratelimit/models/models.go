package models

import "time"

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassPublic covers unauthenticated metadata and open data routes.
	ClassPublic EndpointClass = "public"
	// ClassAuthorize covers accreditation issuance and consent answers.
	ClassAuthorize EndpointClass = "authorize"
	// ClassHarvest covers evidence, direct harvest and status routes.
	ClassHarvest EndpointClass = "harvest"
	// ClassRead covers accreditation listing and lookup.
	ClassRead EndpointClass = "read"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassPublic, ClassAuthorize, ClassHarvest, ClassRead:
		return true
	}
	return false
}

// Result is the outcome of one bucket check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}
