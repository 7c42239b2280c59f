package credcipher

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestRoundTrip(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	for _, plain := range []string{
		"",
		"hunter2",
		"päss wörd with ünïcode 🔐",
		strings.Repeat("long-", 100),
	} {
		token, err := c.Encrypt(plain)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "v1:"))

		got, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestWrongKeyFailsClosed(t *testing.T) {
	c1, err := New(testKey(t))
	require.NoError(t, err)
	c2, err := New(testKey(t))
	require.NoError(t, err)

	token, err := c1.Encrypt("secret")
	require.NoError(t, err)

	got, err := c2.Decrypt(token)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.Empty(t, got, "wrong key must never yield plaintext")
}

func TestTamperedCiphertextFails(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	token, err := c.Encrypt("secret")
	require.NoError(t, err)

	// Flip a character in the payload.
	b := []byte(token)
	b[len(b)-5] ^= 0x01
	_, err = c.Decrypt(string(b))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestMalformedTokens(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	for _, token := range []string{"", "v1:", "v1:!!!not-base64!!!", "v2:AAAA", "plain-garbage", "v1:AAAA"} {
		_, err := c.Decrypt(token)
		assert.ErrorIs(t, err, ErrDecryptionFailed, "token %q", token)
	}
}

func TestDecryptOrMask(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	token, err := c.Encrypt("visible")
	require.NoError(t, err)
	assert.Equal(t, "visible", c.DecryptOrMask(token))
	assert.Equal(t, MaskedSecret, c.DecryptOrMask("v1:corrupt"))
}

func TestKeySizeEnforced(t *testing.T) {
	_, err := New(make([]byte, 16))
	assert.Error(t, err)
}

func TestLoadKeyHexAndBase64(t *testing.T) {
	t.Setenv("CREDENTIAL_ENCRYPTION_KEY", strings.Repeat("ab", KeySize))
	key, err := LoadKey()
	require.NoError(t, err)
	assert.Len(t, key, KeySize)

	t.Setenv("CREDENTIAL_ENCRYPTION_KEY", "not a key")
	_, err = LoadKey()
	assert.Error(t, err)
}

func TestLoadKeyProductionRequiresKey(t *testing.T) {
	t.Setenv("CREDENTIAL_ENCRYPTION_KEY", "")
	t.Setenv("APP_ENV", "production")
	_, err := LoadKey()
	assert.ErrorIs(t, err, ErrKeyRequired)
}
