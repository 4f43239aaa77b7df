package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/auth-service/internal/domain"
)

// Fine-grained token failures. The session orchestrator collapses all of
// these into a single caller-facing invalid-token error; only internal logs
// keep the distinction.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
)

// TokenManager issues and validates HS256-signed JWTs. The signing key is
// read-only for the manager's lifetime, so a single instance is safe for
// concurrent use.
type TokenManager struct {
	key        SigningKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager with the given key and lifetimes.
func NewTokenManager(key SigningKey, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{key: key, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// Claims describes the token payload: the registered subject/issued-at/
// expires-at/id fields plus the typed role extension.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived token carrying the identity's subject
// and role.
func (tm *TokenManager) IssueAccessToken(identity *domain.Identity) (string, error) {
	return tm.IssueToken(identity, map[string]any{"role": identity.Role}, tm.accessTTL)
}

// IssueRefreshToken signs a long-lived token carrying only the subject.
func (tm *TokenManager) IssueRefreshToken(identity *domain.Identity) (string, error) {
	return tm.IssueToken(identity, nil, tm.refreshTTL)
}

// IssueToken is the general form: extra claims are merged into the payload
// verbatim. A claims set without a subject is never signed. The uuid token
// id keeps two tokens issued within the same second distinct.
func (tm *TokenManager) IssueToken(identity *domain.Identity, extra map[string]any, lifetime time.Duration) (string, error) {
	if identity == nil || identity.Subject == "" {
		return "", errors.New("cannot issue a token without a subject")
	}
	if lifetime <= 0 {
		return "", errors.New("token lifetime must be positive")
	}

	now := tm.now()
	claims := jwt.MapClaims{
		"sub": identity.Subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(lifetime)),
		"jti": uuid.NewString(),
	}
	for name, value := range extra {
		claims[name] = value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.key))
}

// ParseToken verifies the signature and expiry of a token and returns its
// claims. Failures are classified into ErrSignatureInvalid, ErrTokenExpired
// and ErrMalformedToken; a token valid exactly at its expiry instant is
// already expired.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrSignatureInvalid
		}
		return []byte(tm.key), nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrMalformedToken
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// ExtractSubject decodes the token and returns the subject bound to it,
// propagating codec failures.
func (tm *TokenManager) ExtractSubject(tokenStr string) (string, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether the token verifies, is unexpired and is bound to
// the expected identity. It never returns an error: callers resolve the
// identity out-of-band (via ExtractSubject) and use this as a boolean gate.
func (tm *TokenManager) IsValid(tokenStr string, identity *domain.Identity) bool {
	if identity == nil {
		return false
	}
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return false
	}
	if claims.Subject != identity.Subject {
		return false
	}
	return claims.ExpiresAt != nil && tm.now().Before(claims.ExpiresAt.Time)
}

// StripBearer removes an optional "Bearer " scheme tag from a presented
// token string.
func StripBearer(presented string) string {
	presented = strings.TrimSpace(presented)
	if len(presented) > 7 && strings.EqualFold(presented[:7], "bearer ") {
		return strings.TrimSpace(presented[7:])
	}
	return presented
}
