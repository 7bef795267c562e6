//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"broker/pkg/platform/audit/outbox"
	"broker/pkg/platform/audit/outbox/store/postgres"
	"broker/pkg/testutil/containers"
)

type OutboxStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
	base     time.Time
}

func TestOutboxStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxStoreSuite))
}

func (s *OutboxStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.base = time.Now().UTC().Truncate(time.Millisecond)
}

func (s *OutboxStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *OutboxStoreSuite) append(aggregateID string, offset time.Duration) *outbox.Entry {
	e := outbox.NewEntry(outbox.AggregateAccreditation, aggregateID, "accreditation_issued",
		[]byte(`{"action":"accreditation_issued"}`), s.base.Add(offset))
	s.Require().NoError(s.store.Append(context.Background(), e))
	return e
}

func (s *OutboxStoreSuite) TestRelayLifecycle() {
	ctx := context.Background()
	first := s.append("acc-1", 0)
	s.append("acc-2", time.Second)

	pending, err := s.store.FetchUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(first.ID, pending[0].ID)
	s.JSONEq(`{"action":"accreditation_issued"}`, string(pending[0].Payload))

	s.Require().NoError(s.store.MarkProcessed(ctx, first.ID, s.base.Add(time.Minute)))
	count, err := s.store.CountPending(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)

	deleted, err := s.store.DeleteProcessedBefore(ctx, s.base.Add(time.Hour))
	s.Require().NoError(err)
	s.EqualValues(1, deleted)
}

func (s *OutboxStoreSuite) TestMarkUnknownEntry() {
	err := s.store.MarkProcessed(context.Background(), uuid.New(), s.base)
	s.ErrorIs(err, outbox.ErrNotFound)
}
