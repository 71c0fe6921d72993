//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"oreledger/internal/certification"
	"oreledger/pkg/platform/sentinel"
	"oreledger/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	rc    *containers.RedisContainer
	inner *InMemory
	cache *RedisCache
	ctx   context.Context
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.ctx = context.Background()
	s.rc = containers.NewRedisContainer(s.T())
}

func (s *RedisCacheSuite) TearDownSuite() {
	_ = s.rc.Client.Close()
	_ = s.rc.Container.Terminate(s.ctx)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(s.ctx))
	s.inner = NewInMemory()
	s.cache = NewRedisCache(s.inner, s.rc.Client)
}

func (s *RedisCacheSuite) TestCertificationReadThrough() {
	cert := &certification.Certification{
		BatchID:   "b1",
		Certifier: "carol",
		Standards: []string{"ISO-14001"},
		Status:    certification.StatusValid,
		Notes:     "clean audit",
	}
	s.Require().NoError(s.cache.CreateCertification(s.ctx, cert))

	s.Run("first read populates the cache", func() {
		got, err := s.cache.FindCertification(s.ctx, "b1")
		s.Require().NoError(err)
		s.Equal("clean audit", got.Notes)

		exists, err := s.rc.Client.Exists(s.ctx, "cert:batch:b1").Result()
		s.Require().NoError(err)
		s.EqualValues(1, exists)
	})

	s.Run("cached read survives the backing store losing the record", func() {
		// Fresh inner store simulates a cache hit with no backing read.
		detached := NewRedisCache(NewInMemory(), s.rc.Client)
		got, err := detached.FindCertification(s.ctx, "b1")
		s.Require().NoError(err)
		s.Equal("clean audit", got.Notes)
	})

	s.Run("revocation invalidates so the next read sees the new state", func() {
		s.Require().NoError(s.cache.RevokeCertification(s.ctx, "b1", "fraud"))

		got, err := s.cache.FindCertification(s.ctx, "b1")
		s.Require().NoError(err)
		s.Equal(certification.StatusRevoked, got.Status)
		s.Equal("fraud", got.Notes)
	})
}

func (s *RedisCacheSuite) TestCertifierReadThrough() {
	s.Require().NoError(s.cache.UpsertCertifier(s.ctx, certification.Certifier{Address: "carol", Active: true}))

	c, err := s.cache.FindCertifier(s.ctx, "carol")
	s.Require().NoError(err)
	s.True(c.Active)

	s.Run("deactivation invalidates the roster entry", func() {
		s.Require().NoError(s.cache.UpsertCertifier(s.ctx, certification.Certifier{Address: "carol", Active: false}))

		c, err := s.cache.FindCertifier(s.ctx, "carol")
		s.Require().NoError(err)
		s.False(c.Active)
	})
}

func (s *RedisCacheSuite) TestMissIsNotCached() {
	_, err := s.cache.FindCertification(s.ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)

	exists, err := s.rc.Client.Exists(s.ctx, "cert:batch:ghost").Result()
	s.Require().NoError(err)
	s.EqualValues(0, exists)
}
