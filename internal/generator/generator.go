package generator

import (
	"crypto/rand"
	"math/big"
)

// Length policy: out-of-range requests clamp to the default rather than
// erroring, matching the generation endpoint contract.
const (
	MinLength     = 12
	MaxLength     = 32
	DefaultLength = 16
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Generate synthesizes a random password from a crypto-secure source.
// The result always contains at least one upper and one lower case letter,
// at least one digit iff useNumbers, and at least one special iff useSpecial.
func Generate(length int, useSpecial, useNumbers bool) (string, error) {
	if length < MinLength || length > MaxLength {
		length = DefaultLength
	}

	alphabet := lowerChars + upperChars
	required := []string{lowerChars, upperChars}
	if useNumbers {
		alphabet += digitChars
		required = append(required, digitChars)
	}
	if useSpecial {
		alphabet += specialChars
		required = append(required, specialChars)
	}

	out := make([]byte, length)

	// One guaranteed pick per required class, the rest from the full
	// alphabet, then shuffle so class positions are not predictable.
	for i, set := range required {
		c, err := randByte(set)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := len(required); i < length; i++ {
		c, err := randByte(alphabet)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randByte(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
