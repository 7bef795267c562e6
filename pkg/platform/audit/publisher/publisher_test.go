package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "broker/pkg/domain-errors"
	audit "broker/pkg/platform/audit"
	"broker/pkg/platform/audit/outbox"
	"broker/pkg/platform/audit/outbox/store/memory"
)

type failingStore struct {
	outbox.Store
	err error
}

func (s *failingStore) Append(context.Context, *outbox.Entry) error {
	return s.err
}

// blockingStore holds every Append until release is closed.
type blockingStore struct {
	outbox.Store
	release chan struct{}
}

func (s *blockingStore) Append(context.Context, *outbox.Entry) error {
	<-s.release
	return nil
}

func pending(t *testing.T, store outbox.Store) []*outbox.Entry {
	t.Helper()
	entries, err := store.FetchUnprocessed(context.Background(), 100)
	require.NoError(t, err)
	return entries
}

func TestPublisher_EmitWritesOutboxEntry(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	accID := uuid.NewString()

	err := pub.Emit(context.Background(), audit.Event{
		Timestamp:       at,
		Action:          string(audit.EventAccreditationIssued),
		AccreditationID: accID,
		EvidenceCodes:   []string{"Basic"},
	})
	require.NoError(t, err)

	entries := pending(t, store)
	require.Len(t, entries, 1)
	assert.Equal(t, outbox.AggregateAccreditation, entries[0].AggregateType)
	assert.Equal(t, accID, entries[0].AggregateID)
	assert.Equal(t, "accreditation_issued", entries[0].EventType)
	assert.True(t, at.Equal(entries[0].CreatedAt))

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(entries[0].Payload, &decoded))
	assert.Equal(t, []string{"Basic"}, decoded.EvidenceCodes)
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store)

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "data_retrieved", AccreditationID: "a"}))

	entries := pending(t, store)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].CreatedAt.Before(before))
}

func TestPublisher_PropagatesStoreError(t *testing.T) {
	pub := NewPublisher(&failingStore{err: errors.New("db down")})
	err := pub.Emit(context.Background(), audit.Event{Action: "data_retrieved"})
	require.Error(t, err)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store, WithAsyncBuffer(10))

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "data_retrieved", AccreditationID: "a"}))
	}
	pub.Close()

	assert.Len(t, pending(t, store), 5)
}

func TestPublisher_AsyncBufferFull(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer func() {
		close(store.release)
		pub.Close()
	}()

	// The worker takes the first event and blocks, the second fills the buffer.
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "a"}))
	require.Eventually(t, func() bool { return len(pub.events) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "b"}))

	err := pub.Emit(context.Background(), audit.Event{Action: "c"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
