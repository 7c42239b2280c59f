package credcipher

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
)

// KeySize is the AES-256 key length.
const KeySize = 32

// ErrKeyRequired is returned when no encryption key is configured in a
// production environment. The process must refuse to start rather than
// synthesize one: a generated key cannot decrypt anything written before it.
var ErrKeyRequired = errors.New("credcipher: CREDENTIAL_ENCRYPTION_KEY is required in production")

// LoadKey reads CREDENTIAL_ENCRYPTION_KEY (hex or base64, 32 bytes decoded).
// When unset: production (APP_ENV=production) fails hard; anything else gets
// a random throwaway key with a loud warning, since every restart makes
// previously stored ciphertext unreadable.
func LoadKey() ([]byte, error) {
	if raw := os.Getenv("CREDENTIAL_ENCRYPTION_KEY"); raw != "" {
		key, err := decodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("credcipher: invalid CREDENTIAL_ENCRYPTION_KEY: %w", err)
		}
		return key, nil
	}

	if os.Getenv("APP_ENV") == "production" {
		return nil, ErrKeyRequired
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	log.Printf("[Cipher] WARNING: CREDENTIAL_ENCRYPTION_KEY not set; generated a throwaway key. " +
		"Stored credentials will NOT survive a restart. Never run production like this.")
	return key, nil
}

func decodeKey(raw string) ([]byte, error) {
	if key, err := hex.DecodeString(raw); err == nil && len(key) == KeySize {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) == KeySize {
		return key, nil
	}
	if key, err := base64.URLEncoding.DecodeString(raw); err == nil && len(key) == KeySize {
		return key, nil
	}
	return nil, fmt.Errorf("want %d bytes as hex or base64", KeySize)
}
