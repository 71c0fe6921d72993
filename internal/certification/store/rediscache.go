package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"oreledger/internal/certification"
	"oreledger/pkg/domain"
)

// cacheTTL bounds staleness for reads served from Redis. Certification
// records only ever change once (revocation), and mutations invalidate
// eagerly, so the TTL is a backstop.
const cacheTTL = 5 * time.Minute

// RedisCache is a read-through cache in front of another certification
// store. Mutations write through and invalidate.
type RedisCache struct {
	next  Store
	redis *redis.Client
}

// Store is the surface the cache wraps; it matches the service's store
// interface so the cache can front either implementation.
type Store interface {
	UpsertCertifier(ctx context.Context, c certification.Certifier) error
	FindCertifier(ctx context.Context, address domain.Identity) (*certification.Certifier, error)
	CreateCertification(ctx context.Context, c *certification.Certification) error
	FindCertification(ctx context.Context, batchID string) (*certification.Certification, error)
	RevokeCertification(ctx context.Context, batchID, reason string) error
}

func NewRedisCache(next Store, client *redis.Client) *RedisCache {
	return &RedisCache{next: next, redis: client}
}

func certKey(batchID string) string         { return "cert:batch:" + batchID }
func certifierKey(a domain.Identity) string { return "cert:roster:" + a.String() }

func (c *RedisCache) UpsertCertifier(ctx context.Context, cr certification.Certifier) error {
	if err := c.next.UpsertCertifier(ctx, cr); err != nil {
		return err
	}
	c.redis.Del(ctx, certifierKey(cr.Address))
	return nil
}

func (c *RedisCache) FindCertifier(ctx context.Context, address domain.Identity) (*certification.Certifier, error) {
	key := certifierKey(address)
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var cr certification.Certifier
		if json.Unmarshal(raw, &cr) == nil {
			return &cr, nil
		}
	}
	cr, err := c.next.FindCertifier(ctx, address)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(cr); err == nil {
		c.redis.Set(ctx, key, raw, cacheTTL)
	}
	return cr, nil
}

func (c *RedisCache) CreateCertification(ctx context.Context, cert *certification.Certification) error {
	if err := c.next.CreateCertification(ctx, cert); err != nil {
		return err
	}
	c.redis.Del(ctx, certKey(cert.BatchID))
	return nil
}

func (c *RedisCache) FindCertification(ctx context.Context, batchID string) (*certification.Certification, error) {
	key := certKey(batchID)
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var cert certification.Certification
		if json.Unmarshal(raw, &cert) == nil {
			return &cert, nil
		}
	}
	cert, err := c.next.FindCertification(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(cert); err == nil {
		c.redis.Set(ctx, key, raw, cacheTTL)
	}
	return cert, nil
}

func (c *RedisCache) RevokeCertification(ctx context.Context, batchID, reason string) error {
	if err := c.next.RevokeCertification(ctx, batchID, reason); err != nil {
		return err
	}
	c.redis.Del(ctx, certKey(batchID))
	return nil
}

var (
	_ Store = (*RedisCache)(nil)
	_ Store = (*InMemory)(nil)
	_ Store = (*Postgres)(nil)
)
