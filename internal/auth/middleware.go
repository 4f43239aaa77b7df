package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens and resolves the identity behind
// a request. With a revocation store configured, tokens revoked at logout
// are rejected as well.
type AuthMiddleware struct {
	tokens      *TokenManager
	identities  repository.IdentityStore
	revocations repository.RevocationStore
}

// NewAuthMiddleware constructs middleware. revocations may be nil.
func NewAuthMiddleware(tokens *TokenManager, identities repository.IdentityStore, revocations repository.RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, identities: identities, revocations: revocations}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], domain.TokenTypeBearer) {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("invalid token")
		}
	}

	identity, err := m.identities.FindBySubject(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("identity not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
