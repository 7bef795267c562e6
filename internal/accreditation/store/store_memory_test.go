package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/internal/evidence/models"
	"broker/pkg/testutil"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx    context.Context
	store  *InMemoryStore
	issued time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.issued = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) accreditation(sc string, issued time.Time) *models.Accreditation {
	return testutil.NewAccreditation(sc, issued, testutil.NewDescriptor("Basic").InContexts(sc).Build())
}

func (s *InMemoryStoreSuite) TestCreateAndGet() {
	acc := s.accreditation("sc1", s.issued)
	s.Require().NoError(s.store.Create(s.ctx, acc))

	s.Run("returns an independent copy", func() {
		got, err := s.store.Get(s.ctx, acc.ID)
		s.Require().NoError(err)
		s.Equal(acc.ID, got.ID)
		s.True(acc.Requestor.Equal(got.Requestor))
		s.Equal("Basic", got.EvidenceCodes[0].Name)

		got.Owner = "someone else"
		again, err := s.store.Get(s.ctx, acc.ID)
		s.Require().NoError(err)
		s.Equal(acc.Owner, again.Owner)
	})

	s.Run("duplicate id conflicts", func() {
		err := s.store.Create(s.ctx, acc)
		s.True(errors.Is(err, ErrConflict))
	})

	s.Run("missing id is not found", func() {
		_, err := s.store.Get(s.ctx, "missing")
		s.True(errors.Is(err, ErrNotFound))
	})
}

func (s *InMemoryStoreSuite) TestExecute() {
	acc := s.accreditation("sc1", s.issued)
	s.Require().NoError(s.store.Create(s.ctx, acc))

	s.Run("applies the mutation", func() {
		updated, err := s.store.Execute(s.ctx, acc.ID, func(a *models.Accreditation) error {
			a.AuthorizationCode = "code-1"
			return nil
		})
		s.Require().NoError(err)
		s.Equal("code-1", updated.AuthorizationCode)

		got, err := s.store.Get(s.ctx, acc.ID)
		s.Require().NoError(err)
		s.Equal("code-1", got.AuthorizationCode)
	})

	s.Run("a failing mutation leaves the record unchanged", func() {
		boom := errors.New("boom")
		_, err := s.store.Execute(s.ctx, acc.ID, func(a *models.Accreditation) error {
			a.AuthorizationCode = "changed"
			return boom
		})
		s.ErrorIs(err, boom)

		got, err := s.store.Get(s.ctx, acc.ID)
		s.Require().NoError(err)
		s.Equal("code-1", got.AuthorizationCode)
	})

	s.Run("missing id is not found", func() {
		_, err := s.store.Execute(s.ctx, "missing", func(*models.Accreditation) error { return nil })
		s.True(errors.Is(err, ErrNotFound))
	})
}

func (s *InMemoryStoreSuite) TestConcurrentExecuteLosesNoUpdate() {
	acc := s.accreditation("sc1", s.issued)
	s.Require().NoError(s.store.Create(s.ctx, acc))

	successes, errs := testutil.RunConcurrentCollect(20, func(int) error {
		_, err := s.store.Execute(s.ctx, acc.ID, func(a *models.Accreditation) error {
			a.DataRetrievals = append(a.DataRetrievals, models.DataRetrieval{EvidenceCodeName: "Basic"})
			return nil
		})
		return err
	})
	s.Empty(errs)
	s.Equal(int32(20), successes)

	got, err := s.store.Get(s.ctx, acc.ID)
	s.Require().NoError(err)
	s.Len(got.DataRetrievals, 20)
}

func (s *InMemoryStoreSuite) TestDelete() {
	acc := s.accreditation("sc1", s.issued)
	s.Require().NoError(s.store.Create(s.ctx, acc))

	s.Require().NoError(s.store.Delete(s.ctx, acc.ID))
	_, err := s.store.Get(s.ctx, acc.ID)
	s.True(errors.Is(err, ErrNotFound))
	s.True(errors.Is(s.store.Delete(s.ctx, acc.ID), ErrNotFound))
}

func (s *InMemoryStoreSuite) TestQuery() {
	older := s.accreditation("sc1", s.issued)
	newer := s.accreditation("sc1", s.issued.Add(time.Hour))
	otherContext := s.accreditation("sc2", s.issued)
	expired := s.accreditation("sc1", s.issued.Add(-60*24*time.Hour))
	foreign := s.accreditation("sc1", s.issued)
	foreign.Owner = testutil.TestParties.Other
	other := testutil.MustParty(testutil.TestParties.Other)
	otherRequestor := s.accreditation("sc1", s.issued.Add(2*time.Hour))
	otherRequestor.Requestor = other

	for _, acc := range []*models.Accreditation{newer, older, otherContext, expired, foreign, otherRequestor} {
		s.Require().NoError(s.store.Create(s.ctx, acc))
	}

	base := Query{
		Owner:          testutil.TestParties.Requestor,
		ServiceContext: "sc1",
		Now:            s.issued.Add(3 * time.Hour),
	}

	s.Run("owner and service context, oldest change first", func() {
		list, err := s.store.Query(s.ctx, base)
		s.Require().NoError(err)
		s.Require().Len(list, 3)
		s.Equal(older.ID, list[0].ID)
		s.Equal(newer.ID, list[1].ID)
		s.Equal(otherRequestor.ID, list[2].ID)
	})

	s.Run("requestor filter", func() {
		q := base
		q.Requestor = testutil.TestParties.Other
		list, err := s.store.Query(s.ctx, q)
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(otherRequestor.ID, list[0].ID)
	})

	s.Run("changed after is exclusive", func() {
		q := base
		after := s.issued
		q.ChangedAfter = &after
		list, err := s.store.Query(s.ctx, q)
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal(newer.ID, list[0].ID)
	})
}
