package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/auth-service/internal/domain"
)

// MemoryIdentityRepository is an in-memory IdentityStore used in tests and
// when no database DSN is configured.
type MemoryIdentityRepository struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity
}

// NewMemoryIdentityRepository creates an empty in-memory store.
func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	return &MemoryIdentityRepository{identities: make(map[string]domain.Identity)}
}

func (r *MemoryIdentityRepository) FindBySubject(_ context.Context, subject string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[subject]
	if !ok {
		return nil, ErrNotFound
	}
	copied := identity
	return &copied, nil
}

func (r *MemoryIdentityRepository) ExistsBySubject(_ context.Context, subject string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.identities[subject]
	return ok, nil
}

func (r *MemoryIdentityRepository) Save(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.identities[identity.Subject] = *identity
	return nil
}

func (r *MemoryIdentityRepository) TouchLastAuthenticated(_ context.Context, subject string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[subject]
	if !ok {
		return ErrNotFound
	}
	identity.LastAuthenticatedAt = &at
	identity.UpdatedAt = time.Now()
	r.identities[subject] = identity
	return nil
}
