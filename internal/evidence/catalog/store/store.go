// Package store holds the shared tier of the evidence catalog: the merged
// descriptor list every broker instance reads before fanning out to sources.
package store

import "broker/internal/sentinel"

// ErrNotFound is returned on a shared-cache miss.
var ErrNotFound = sentinel.ErrNotFound

const catalogKey = "broker:catalog:v1"
