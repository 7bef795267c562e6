// Package tracer is the broker's tracing seam. Services depend on the Tracer
// interface; production wires the OpenTelemetry adapter and tests use NewNoop.
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

func Bool(key string, value bool) Attribute { return Attribute{Key: key, Value: value} }

func Int(key string, value int) Attribute { return Attribute{Key: key, Value: int64(value)} }

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanCatalogRefresh = "catalog.refresh"
	SpanCatalogSource  = "catalog.source"
	SpanHarvest        = "harvest"
	SpanHarvestStream  = "harvest.stream"
	SpanStatusPoll     = "status.poll"
	SpanAuthorize      = "authorize"
)

// Attribute keys.
const (
	AttrEvidenceCode    = "evidence.code"
	AttrEvidenceSource  = "evidence.source"
	AttrAccreditationID = "accreditation.id"
	AttrServiceContext  = "service_context"
	AttrForceRefresh    = "catalog.force"
	AttrCacheTier       = "cache.tier"
	AttrAsync           = "evidence.async"
	AttrDatasetCount    = "catalog.datasets"
)
