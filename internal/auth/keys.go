package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SigningKey is the symmetric HMAC key shared by token signing and
// verification. It is derived once at startup and must never be mutated
// afterwards; every TokenManager receives it by value.
type SigningKey []byte

// SigningKeyFromSecret derives the signing key from the configured secret,
// which is stored as standard base64. A missing, empty or undecodable secret
// is a configuration error; callers are expected to abort startup on it.
func SigningKeyFromSecret(secret string) (SigningKey, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("signing secret is not valid base64: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("signing secret decodes to an empty key")
	}
	return SigningKey(key), nil
}
