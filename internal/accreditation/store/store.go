// Package store persists accreditations.
//
// Error contract: every store returns ErrNotFound for a missing id and
// ErrConflict for a duplicate id. Other failures are wrapped with context.
package store

import (
	"time"

	"broker/internal/evidence/models"
	"broker/internal/sentinel"
)

var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

// Query selects the accreditations an owner holds in one service context.
// Only accreditations still valid at Now are returned, oldest change first.
type Query struct {
	Owner          string
	ServiceContext string
	Requestor      string
	ChangedAfter   *time.Time
	Now            time.Time
}

// Matches applies the query to one accreditation.
func (q Query) Matches(acc *models.Accreditation) bool {
	if acc.Owner != q.Owner || acc.ServiceContext != q.ServiceContext {
		return false
	}
	if q.Requestor != "" && acc.Requestor.Key() != q.Requestor {
		return false
	}
	if q.ChangedAfter != nil && !acc.LastChanged.After(*q.ChangedAfter) {
		return false
	}
	return !acc.IsExpired(q.Now)
}
