//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/internal/accreditation/store"
	"broker/internal/evidence/models"
	"broker/pkg/testutil"
	"broker/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	issued   time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.issued = time.Now().UTC().Truncate(time.Millisecond)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) accreditation(sc string, issued time.Time) *models.Accreditation {
	return testutil.NewAccreditation(sc, issued, testutil.NewDescriptor("Basic").InContexts(sc).Build())
}

func (s *PostgresStoreSuite) TestCreateGetDelete() {
	ctx := context.Background()
	acc := s.accreditation("sc1", s.issued)

	s.Require().NoError(s.store.Create(ctx, acc))
	s.True(errors.Is(s.store.Create(ctx, acc), store.ErrConflict))

	got, err := s.store.Get(ctx, acc.ID)
	s.Require().NoError(err)
	s.Equal(acc.ID, got.ID)
	s.True(acc.ValidTo.Equal(got.ValidTo))
	s.Require().Len(got.EvidenceCodes, 1)
	s.Equal("Basic", got.EvidenceCodes[0].Name)

	s.Require().NoError(s.store.Delete(ctx, acc.ID))
	_, err = s.store.Get(ctx, acc.ID)
	s.True(errors.Is(err, store.ErrNotFound))
	s.True(errors.Is(s.store.Delete(ctx, acc.ID), store.ErrNotFound))
}

// Concurrent read-modify-write through Execute must not lose appended retrievals.
func (s *PostgresStoreSuite) TestConcurrentExecute() {
	ctx := context.Background()
	acc := s.accreditation("sc1", s.issued)
	s.Require().NoError(s.store.Create(ctx, acc))

	const workers = 10
	successes, errs := testutil.RunConcurrentCollect(workers, func(i int) error {
		_, err := s.store.Execute(ctx, acc.ID, func(a *models.Accreditation) error {
			a.DataRetrievals = append(a.DataRetrievals, models.DataRetrieval{
				EvidenceCodeName: "Basic",
				Timestamp:        s.issued.Add(time.Duration(i) * time.Second),
			})
			a.LastChanged = s.issued.Add(time.Minute)
			return nil
		})
		return err
	})
	s.Empty(errs)
	s.Equal(int32(workers), successes)

	got, err := s.store.Get(ctx, acc.ID)
	s.Require().NoError(err)
	s.Len(got.DataRetrievals, workers)
}

func (s *PostgresStoreSuite) TestQuery() {
	ctx := context.Background()
	older := s.accreditation("sc1", s.issued)
	newer := s.accreditation("sc1", s.issued.Add(time.Hour))
	otherContext := s.accreditation("sc2", s.issued)
	expired := s.accreditation("sc1", s.issued.Add(-60*24*time.Hour))
	for _, acc := range []*models.Accreditation{newer, older, otherContext, expired} {
		s.Require().NoError(s.store.Create(ctx, acc))
	}

	q := store.Query{
		Owner:          testutil.TestParties.Requestor,
		ServiceContext: "sc1",
		Now:            s.issued.Add(2 * time.Hour),
	}
	list, err := s.store.Query(ctx, q)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(older.ID, list[0].ID)
	s.Equal(newer.ID, list[1].ID)

	after := s.issued
	q.ChangedAfter = &after
	list, err = s.store.Query(ctx, q)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(newer.ID, list[0].ID)

	q.ChangedAfter = nil
	q.Requestor = testutil.TestParties.Other
	list, err = s.store.Query(ctx, q)
	s.Require().NoError(err)
	s.Empty(list)
}
