package bucket

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/pkg/requestcontext"
	"broker/pkg/testutil"
)

type InMemoryBucketSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	start time.Time
}

func TestInMemoryBucketSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketSuite))
}

func (s *InMemoryBucketSuite) SetupTest() {
	s.store = NewInMemoryBucketStore()
	s.start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *InMemoryBucketSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.start.Add(offset))
}

func (s *InMemoryBucketSuite) TestAllow() {
	s.Run("budget is consumed then denied", func() {
		for i := range 3 {
			res, err := s.store.Allow(s.at(0), "k1", 3, time.Minute)
			s.Require().NoError(err)
			s.True(res.Allowed)
			s.Equal(2-i, res.Remaining)
		}
		res, err := s.store.Allow(s.at(10*time.Second), "k1", 3, time.Minute)
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Equal(0, res.Remaining)
		s.Equal(50, res.RetryAfter)
		s.True(res.ResetAt.Equal(s.start.Add(time.Minute)))
	})

	s.Run("window slides", func() {
		res, err := s.store.Allow(s.at(61*time.Second), "k1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2, res.Remaining)
	})

	s.Run("keys are independent", func() {
		res, err := s.store.Allow(s.at(0), "k2", 1, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
	})
}

func (s *InMemoryBucketSuite) TestAllowN() {
	res, err := s.store.AllowN(s.at(0), "n", 4, 5, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(1, res.Remaining)

	res, err = s.store.AllowN(s.at(0), "n", 2, 5, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
}

func (s *InMemoryBucketSuite) TestReset() {
	_, _ = s.store.Allow(s.at(0), "r", 1, time.Minute)
	s.Require().NoError(s.store.Reset(context.Background(), "r"))
	s.Require().NoError(s.store.Reset(context.Background(), "missing"))

	res, err := s.store.Allow(s.at(0), "r", 1, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *InMemoryBucketSuite) TestConcurrentCallersNeverExceedLimit() {
	var allowed atomic.Int32
	successes, errs := testutil.RunConcurrentCollect(50, func(int) error {
		res, err := s.store.Allow(s.at(0), "shared", 10, time.Minute)
		if err == nil && res.Allowed {
			allowed.Add(1)
		}
		return err
	})
	s.Empty(errs)
	s.Equal(int32(50), successes)
	s.Equal(int32(10), allowed.Load())
}
