package producer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broker/internal/platform/kafka"
)

func TestNewRequiresBrokers(t *testing.T) {
	_, err := New(kafka.DefaultProducerConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brokers not configured")
}

func TestLogProducer(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogProducer(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := p.Produce(context.Background(), &Message{
		Topic:   "broker.accreditation.events",
		Key:     []byte("entry-1"),
		Value:   []byte(`{"action":"accreditation_issued"}`),
		Headers: map[string]string{"event_type": "accreditation_issued"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"audit event relayed"`)
	assert.Contains(t, out, `"topic":"broker.accreditation.events"`)
	assert.Contains(t, out, `"event_type":"accreditation_issued"`)
}
