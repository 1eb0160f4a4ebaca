package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	encrypted, err := Encrypt([]byte("page-token"), []byte(testKey))
	require.NoError(t, err)
	assert.NotEqual(t, "page-token", encrypted)

	plain, err := Decrypt(encrypted, []byte(testKey))
	require.NoError(t, err)
	assert.Equal(t, "page-token", plain)
}

func TestDecryptRejectsShortInput(t *testing.T) {
	_, err := Decrypt("YWJj", []byte(testKey))
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testKey, "42", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)

	_, err = ValidateToken("another-secret-another-secret-00", token)
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****wxyz", MaskSecret("abcdwxyz"))
}
