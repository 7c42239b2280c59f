package credcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrDecryptionFailed covers malformed tokens, wrong keys and failed
// authentication tags alike; callers must not distinguish between them.
var ErrDecryptionFailed = errors.New("credcipher: decryption failed")

// MaskedSecret is what list/read paths substitute for a record whose
// ciphertext cannot be decrypted, so one corrupt row never breaks a view.
const MaskedSecret = "***DECRYPTION_ERROR***"

// Token version prefix. Decrypt dispatches on it, so rotating to a new key
// or scheme later only needs a new prefix.
const v1Prefix = "v1:"

// Cipher seals credential secrets with AES-256-GCM. The key is fixed at
// construction and read-only afterwards, so a single Cipher is safe for
// concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("credcipher: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext into a "v1:" token. A fresh random nonce is used
// every call, so identical plaintexts produce different tokens.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return v1Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. Any failure -- unknown prefix,
// bad base64, truncated payload, wrong key, tampered ciphertext -- yields
// ErrDecryptionFailed so callers cannot leak which stage broke.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, ok := strings.CutPrefix(token, v1Prefix)
	if !ok {
		return "", ErrDecryptionFailed
	}
	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	ns := c.aead.NonceSize()
	if len(sealed) < ns {
		return "", ErrDecryptionFailed
	}
	plaintext, err := c.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// DecryptOrMask is the list-rendering variant: corrupt records come back as
// the masked placeholder instead of an error.
func (c *Cipher) DecryptOrMask(token string) string {
	plain, err := c.Decrypt(token)
	if err != nil {
		return MaskedSecret
	}
	return plain
}
