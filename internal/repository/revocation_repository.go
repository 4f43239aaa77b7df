package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks revoked token ids until their natural expiry.
// It is the optional half of logout: with no store configured, logout is an
// acknowledgement only and issued tokens stay valid until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revocationKeyPrefix = "auth:revoked:"

type redisRevocationRepository struct {
	client *redis.Client
}

// NewRedisRevocationRepository returns a Redis-backed RevocationStore. Keys
// carry a TTL equal to the revoked token's remaining life, so the set stays
// bounded without any sweeper.
func NewRedisRevocationRepository(client *redis.Client) RevocationStore {
	return &redisRevocationRepository{client: client}
}

func (r *redisRevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *redisRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := r.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MemoryRevocationRepository is an in-memory RevocationStore for tests and
// single-process runs.
type MemoryRevocationRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryRevocationRepository creates an empty in-memory store.
func NewMemoryRevocationRepository() *MemoryRevocationRepository {
	return &MemoryRevocationRepository{revoked: make(map[string]time.Time)}
}

func (r *MemoryRevocationRepository) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (r *MemoryRevocationRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry, ok := r.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
