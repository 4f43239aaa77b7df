package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
)

// ErrNotFound is returned when no identity exists for the requested subject.
var ErrNotFound = errors.New("identity not found")

// IdentityStore defines the identity-directory access the session core
// consumes. The directory owns the records; this core reads them and touches
// advisory metadata.
type IdentityStore interface {
	FindBySubject(ctx context.Context, subject string) (*domain.Identity, error)
	ExistsBySubject(ctx context.Context, subject string) (bool, error)
	Save(ctx context.Context, identity *domain.Identity) error
	TouchLastAuthenticated(ctx context.Context, subject string, at time.Time) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed IdentityStore.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityStore {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) FindBySubject(ctx context.Context, subject string) (*domain.Identity, error) {
	const query = `
        SELECT id, subject, display_name, role, password_hash, last_authenticated_at, created_at, updated_at
        FROM identities WHERE subject=$1`

	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, subject).Scan(
		&identity.ID,
		&identity.Subject,
		&identity.DisplayName,
		&identity.Role,
		&identity.PasswordHash,
		&identity.LastAuthenticatedAt,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) ExistsBySubject(ctx context.Context, subject string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM identities WHERE subject=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, subject).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *identityRepository) Save(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (subject, display_name, role, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		identity.Subject,
		identity.DisplayName,
		identity.Role,
		identity.PasswordHash,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
}

func (r *identityRepository) TouchLastAuthenticated(ctx context.Context, subject string, at time.Time) error {
	const query = `
        UPDATE identities SET last_authenticated_at=$1, updated_at=NOW()
        WHERE subject=$2`

	cmd, err := r.pool.Exec(ctx, query, at, subject)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
