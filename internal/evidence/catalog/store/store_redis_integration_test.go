//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/internal/evidence/catalog/store"
	"broker/internal/evidence/models"
	"broker/internal/sentinel"
	"broker/pkg/testutil"
	"broker/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *store.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = store.NewRedisCache(s.redis.Client, nil)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisCacheSuite) TestMiss() {
	_, err := s.cache.Load(context.Background())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestSaveAndLoad() {
	ctx := context.Background()
	list := []models.EvidenceCodeDescriptor{
		testutil.NewDescriptor("UnitBasicInformation").InContexts("sc1").WithRequirements(
			&models.PartyRelationRequirement{
				Relations: []models.PartyRelationType{models.RelationRequestorAndSubjectAreNotEqual},
			},
		).Build(),
		testutil.NewDescriptor("TaxReport").Async().MaxValidDays(30).Build(),
	}
	s.Require().NoError(s.cache.Save(ctx, list, time.Minute))

	got, err := s.cache.Load(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("UnitBasicInformation", got[0].Name)
	s.Require().Len(got[0].Requirements, 1)
	s.Equal(models.KindPartyRelation, got[0].Requirements[0].Kind())
	s.True(got[1].IsAsynchronous)
	s.Require().NotNil(got[1].MaxValidDays)
	s.Equal(30, *got[1].MaxValidDays)

	ttl, err := s.redis.Client.TTL(ctx, "broker:catalog:v1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
