package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

func TestMemoryIdentityRepository(t *testing.T) {
	repo := NewMemoryIdentityRepository()
	ctx := context.Background()

	_, err := repo.FindBySubject(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := repo.ExistsBySubject(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, exists)

	identity := &domain.Identity{
		Subject:      "a@x.com",
		DisplayName:  "Ada",
		Role:         domain.RoleStudent,
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Save(ctx, identity))
	assert.NotEmpty(t, identity.ID)

	exists, err = repo.ExistsBySubject(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindBySubject(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.DisplayName)
	assert.Equal(t, domain.RoleStudent, found.Role)

	// returned value is a copy; mutating it must not touch the store
	found.DisplayName = "Mallory"
	again, err := repo.FindBySubject(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.DisplayName)
}

func TestMemoryIdentityRepositoryTouchLastAuthenticated(t *testing.T) {
	repo := NewMemoryIdentityRepository()
	ctx := context.Background()

	err := repo.TouchLastAuthenticated(ctx, "a@x.com", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(ctx, &domain.Identity{Subject: "a@x.com", PasswordHash: "hash"}))

	at := time.Now()
	require.NoError(t, repo.TouchLastAuthenticated(ctx, "a@x.com", at))

	found, err := repo.FindBySubject(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, found.LastAuthenticatedAt)
	assert.WithinDuration(t, at, *found.LastAuthenticatedAt, time.Second)
}

func TestMemoryRevocationRepository(t *testing.T) {
	repo := NewMemoryRevocationRepository()
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", 50*time.Millisecond))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(60 * time.Millisecond)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationRepositoryIgnoresNonPositiveTTL(t *testing.T) {
	repo := NewMemoryRevocationRepository()
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-1", 0))

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
