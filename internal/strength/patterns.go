package strength

import "strings"

// Pattern category labels returned by DetectPatterns. The wording is part of
// the API response shape, so treat these as stable.
const (
	PatternCommonWords = "Contains common words"
	PatternRepeats     = "Contains repeated characters"
	PatternSequential  = "Contains sequential numbers"
	PatternKeyboard    = "Contains keyboard pattern"
)

// Ordered by rank: earlier tokens are more common and cost an attacker less.
var weakTokens = []string{
	"password", "pwd", "123", "abc", "letmein", "welcome",
	"admin", "iloveyou", "monkey", "dragon", "login", "secret",
}

var keyboardWalks = []string{
	"qwerty", "qwertz", "azerty", "asdfgh", "zxcvbn",
	"asdf", "qazwsx", "1qaz2wsx",
}

var digitRuns = []string{
	"012", "123", "234", "345", "456", "567", "678", "789", "890",
	"210", "321", "432", "543", "654", "765", "876", "987", "098",
}

// DetectPatterns scans for weak-password categories: common dictionary
// tokens, runs of a repeated character (>=3), ascending/descending decimal
// runs (>=3), and keyboard-adjacency walks. It returns each matched category
// label once, in a fixed order. Cheap enough to run on every analysis call.
func DetectPatterns(pwd string) []string {
	if pwd == "" {
		return nil
	}
	lower := strings.ToLower(pwd)

	var out []string
	if containsAny(lower, weakTokens) {
		out = append(out, PatternCommonWords)
	}
	if hasRepeatRun(pwd, 3) {
		out = append(out, PatternRepeats)
	}
	if containsAny(lower, digitRuns) {
		out = append(out, PatternSequential)
	}
	if containsAny(lower, keyboardWalks) {
		out = append(out, PatternKeyboard)
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasRepeatRun(s string, min int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= min {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
