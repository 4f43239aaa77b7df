package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
)

// AuthService drives the register/login/refresh/logout protocol. It is
// stateless: every operation stands alone, and authority derives from token
// signatures and expiries rather than any server-side session record.
type AuthService struct {
	identities  repository.IdentityStore
	revocations repository.RevocationStore
	hasher      auth.PasswordHasher
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the service.
// Revocations and Dispatcher may be nil.
type AuthDependencies struct {
	Identities  repository.IdentityStore
	Revocations repository.RevocationStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, key auth.SigningKey, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		identities:  deps.Identities,
		revocations: deps.Revocations,
		hasher:      auth.NewBcryptHasher(cfg.BcryptCost),
		tokens:      auth.NewTokenManager(key, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL()),
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Register creates a new identity and logs it in. An empty role defaults to
// STUDENT.
func (s *AuthService) Register(ctx context.Context, subject, password, displayName string, role domain.Role) (*domain.Session, error) {
	if role == "" {
		role = domain.RoleStudent
	}

	exists, err := s.identities.ExistsBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrIdentityAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		Subject:      subject,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.identities.Save(ctx, identity); err != nil {
		return nil, err
	}

	session, err := s.issueSession(identity)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventIdentityRegistered, identity)
	return session, nil
}

// Login authenticates a subject against its stored credential hash and
// issues a fresh token pair. The last-authenticated-at touch is advisory
// metadata; a failed write is logged, not surfaced.
func (s *AuthService) Login(ctx context.Context, subject, password string) (*domain.Session, error) {
	identity, err := s.identities.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if !s.hasher.Matches(password, identity.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.identities.TouchLastAuthenticated(ctx, subject, time.Now()); err != nil {
		s.logger.Warn("failed to touch last authenticated at", zap.String("subject", subject), zap.Error(err))
	}

	session, err := s.issueSession(identity)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventIdentityAuthenticated, identity)
	return session, nil
}

// Refresh exchanges a refresh token for a brand-new pair. The presented
// token may carry a "Bearer " scheme tag, which is stripped. The old refresh
// token is not invalidated unless a revocation store is configured; it
// simply remains one of several valid tokens until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*domain.Session, error) {
	token := auth.StripBearer(presented)

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	identity, err := s.identities.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if !s.tokens.IsValid(token, identity) {
		return nil, ErrInvalidToken
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	session, err := s.issueSession(identity)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventSessionRefreshed, identity)
	return session, nil
}

// Logout validates the presented access token and acknowledges. Without a
// revocation store there is no server-side state to clear, so the token
// stays valid until its natural expiry; with one configured, the token id is
// denylisted for its remaining life.
func (s *AuthService) Logout(ctx context.Context, presented string) error {
	token := auth.StripBearer(presented)

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		s.logger.Debug("logout token rejected", zap.Error(err))
		return ErrInvalidToken
	}

	identity, err := s.identities.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}

	if s.revocations != nil && claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
				return err
			}
		}
	}

	s.publish(ctx, events.EventIdentityLoggedOut, identity)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issueSession(identity *domain.Identity) (*domain.Session, error) {
	access, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenTypeBearer,
		Role:         identity.Role,
		DisplayName:  identity.DisplayName,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, identity *domain.Identity) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(eventType, identity.Subject, identity.Role)); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
