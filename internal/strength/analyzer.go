package strength

import (
	"math"
	"strings"
)

// Fixed punctuation set counted as the "special" class. Runes outside all
// four classes set no flag and contribute nothing to the entropy alphabet.
const SpecialChars = "!@#$%^&*()_+-=[]{};\":<>?,./\\|`~'"

// Character-class alphabet sizes used for the entropy estimate.
const (
	lowerSize   = 26
	upperSize   = 26
	digitSize   = 10
	specialSize = 32
)

type Characteristics struct {
	Length     int      `json:"length"`
	HasLower   bool     `json:"has_lowercase"`
	HasUpper   bool     `json:"has_uppercase"`
	HasDigit   bool     `json:"has_digits"`
	HasSpecial bool     `json:"has_special"`
	Patterns   []string `json:"common_patterns"`
}

// ClassCount reports how many of the four character classes are present.
func (c Characteristics) ClassCount() int {
	n := 0
	for _, ok := range []bool{c.HasLower, c.HasUpper, c.HasDigit, c.HasSpecial} {
		if ok {
			n++
		}
	}
	return n
}

// Analyze computes character-class flags and matched weak patterns.
func Analyze(pwd string) Characteristics {
	c := Characteristics{Length: len([]rune(pwd))}
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			c.HasLower = true
		case r >= 'A' && r <= 'Z':
			c.HasUpper = true
		case r >= '0' && r <= '9':
			c.HasDigit = true
		case IsSpecial(r):
			c.HasSpecial = true
		}
	}
	c.Patterns = DetectPatterns(pwd)
	return c
}

// Entropy estimates password entropy as length * log2(alphabet), where the
// alphabet is the sum of the sizes of the character classes actually present
// (26/26/10/32). This is a coarse upper bound on attacker work, not true
// Shannon entropy of the observed distribution; the scorer compensates for
// guessable structure separately.
func Entropy(pwd string) float64 {
	if pwd == "" {
		return 0
	}
	var hasL, hasU, hasD, hasS bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			hasL = true
		case r >= 'A' && r <= 'Z':
			hasU = true
		case r >= '0' && r <= '9':
			hasD = true
		case IsSpecial(r):
			hasS = true
		}
	}
	alphabet := 0
	if hasL {
		alphabet += lowerSize
	}
	if hasU {
		alphabet += upperSize
	}
	if hasD {
		alphabet += digitSize
	}
	if hasS {
		alphabet += specialSize
	}
	if alphabet == 0 {
		return 0
	}
	bits := float64(len([]rune(pwd))) * math.Log2(float64(alphabet))
	return math.Round(bits*100) / 100
}

// IsSpecial reports whether r belongs to the fixed special-character set.
func IsSpecial(r rune) bool {
	return strings.ContainsRune(SpecialChars, r)
}
