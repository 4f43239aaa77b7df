package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningKeyFromSecret(t *testing.T) {
	raw := []byte("0123456789abcdef0123456789abcdef")
	key, err := SigningKeyFromSecret(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, []byte(key))
}

func TestSigningKeyFromSecretRejectsEmpty(t *testing.T) {
	_, err := SigningKeyFromSecret("")
	assert.Error(t, err)

	_, err = SigningKeyFromSecret("   ")
	assert.Error(t, err)
}

func TestSigningKeyFromSecretRejectsInvalidBase64(t *testing.T) {
	_, err := SigningKeyFromSecret("%%%not-base64%%%")
	assert.Error(t, err)
}

func TestSigningKeyFromSecretRejectsEmptyDecodedKey(t *testing.T) {
	// valid base64 of zero bytes
	_, err := SigningKeyFromSecret(base64.StdEncoding.EncodeToString(nil))
	assert.Error(t, err)
}
