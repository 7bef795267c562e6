package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"broker/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanHarvest, tracer.String(tracer.AttrEvidenceCode, "Bevis"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Bool(tracer.AttrAsync, true))
	span.AddEvent("polled", tracer.Int("attempt", 1))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithInjectedTracer(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	_, span := tr.Start(context.Background(), tracer.SpanCatalogRefresh,
		tracer.Bool(tracer.AttrForceRefresh, true),
		tracer.Duration("elapsed", 150*time.Millisecond),
	)
	require.NotNil(t, span)
	span.End(nil)
}

func TestAttributeConstructors(t *testing.T) {
	assert.Equal(t, int64(3), tracer.Int("n", 3).Value)
	assert.Equal(t, int64(150), tracer.Duration("d", 150*time.Millisecond).Value)
	assert.Equal(t, "v", tracer.String("k", "v").Value)
}
