package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

var testKey = SigningKey([]byte("0123456789abcdef0123456789abcdef"))

func testIdentity() *domain.Identity {
	return &domain.Identity{Subject: "a@x.com", DisplayName: "Ada", Role: domain.RoleStudent}
}

func newTestManager() *TokenManager {
	return NewTokenManager(testKey, time.Hour, 24*time.Hour)
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	tm := newTestManager()
	identity := testIdentity()

	token, err := tm.IssueAccessToken(identity)
	require.NoError(t, err)

	assert.True(t, tm.IsValid(token, identity))

	subject, err := tm.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, identity.Subject, subject)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestIsValidRejectsOtherSubject(t *testing.T) {
	tm := newTestManager()
	token, err := tm.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	other := &domain.Identity{Subject: "b@x.com", Role: domain.RoleStudent}
	assert.False(t, tm.IsValid(token, other))
	assert.False(t, tm.IsValid(token, nil))
}

func TestExpiryBoundaryIsExpired(t *testing.T) {
	tm := NewTokenManager(testKey, time.Minute, time.Hour)
	base := time.Unix(1_700_000_000, 0)
	tm.now = func() time.Time { return base }

	identity := testIdentity()
	token, err := tm.IssueAccessToken(identity)
	require.NoError(t, err)

	tm.now = func() time.Time { return base.Add(time.Minute - time.Second) }
	assert.True(t, tm.IsValid(token, identity))

	// exactly at expiresAt counts as expired
	tm.now = func() time.Time { return base.Add(time.Minute) }
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, tm.IsValid(token, identity))

	tm.now = func() time.Time { return base.Add(2 * time.Minute) }
	assert.False(t, tm.IsValid(token, identity))
}

func TestTamperedSignatureRejected(t *testing.T) {
	tm := newTestManager()
	token, err := tm.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[10] == 'A' {
		sig[10] = 'B'
	} else {
		sig[10] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.ParseToken(tampered)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	assert.False(t, tm.IsValid(tampered, testIdentity()))
}

func TestTamperedPayloadRejected(t *testing.T) {
	tm := newTestManager()
	token, err := tm.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	if payload[4] == 'A' {
		payload[4] = 'B'
	} else {
		payload[4] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = tm.ParseToken(tampered)
	assert.Error(t, err)
}

func TestWrongKeyRejected(t *testing.T) {
	tm := newTestManager()
	foreign := NewTokenManager(SigningKey([]byte("another-secret-key-of-some-size!")), time.Hour, 24*time.Hour)

	token, err := foreign.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestMalformedTokenRejected(t *testing.T) {
	tm := newTestManager()

	for _, input := range []string{"", "garbage", "a.b", "not.a.token"} {
		_, err := tm.ParseToken(input)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", input)
	}
}

func TestWrongAlgorithmRejected(t *testing.T) {
	tm := newTestManager()

	claims := jwt.MapClaims{
		"sub": "a@x.com",
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestMissingSubjectRejected(t *testing.T) {
	tm := newTestManager()

	claims := jwt.MapClaims{
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestIssueRequiresSubjectAndLifetime(t *testing.T) {
	tm := newTestManager()

	_, err := tm.IssueAccessToken(&domain.Identity{})
	assert.Error(t, err)

	_, err = tm.IssueAccessToken(nil)
	assert.Error(t, err)

	_, err = tm.IssueToken(testIdentity(), nil, 0)
	assert.Error(t, err)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	tm := newTestManager()
	identity := testIdentity()

	first, err := tm.IssueRefreshToken(identity)
	require.NoError(t, err)
	second, err := tm.IssueRefreshToken(identity)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	tm := newTestManager()
	identity := testIdentity()

	access, err := tm.IssueAccessToken(identity)
	require.NoError(t, err)
	refresh, err := tm.IssueRefreshToken(identity)
	require.NoError(t, err)

	accessClaims, err := tm.ParseToken(access)
	require.NoError(t, err)
	refreshClaims, err := tm.ParseToken(refresh)
	require.NoError(t, err)

	assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time))
}

func TestIssueTokenMergesExtraClaims(t *testing.T) {
	tm := newTestManager()

	token, err := tm.IssueToken(testIdentity(), map[string]any{"role": domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", StripBearer("abc"))
	assert.Equal(t, "abc", StripBearer("Bearer abc"))
	assert.Equal(t, "abc", StripBearer("bearer abc"))
	assert.Equal(t, "abc", StripBearer("  Bearer abc  "))
	assert.Equal(t, "", StripBearer(""))
}
