package strength

// Static recommendation pool, used when the scorer has nothing specific to
// say about the password at hand.
var defaultRecommendations = []string{
	"Increase password length to 16+ characters",
	"Mix uppercase, lowercase, numbers, and special characters",
	"Avoid common words or predictable sequences",
	"Avoid using personal information (names, birthdates)",
	"Use a passphrase with random words for better memorability",
	"Avoid keyboard patterns (qwerty, asdfgh, etc.)",
	"Consider using a password manager to generate and store strong passwords",
}

const positiveRecommendation = "Excellent password! Length and character variety are both strong."

var patternRecommendations = map[string]string{
	PatternCommonWords: "Avoid common words or predictable sequences",
	PatternRepeats:     "Avoid repeating the same character several times in a row",
	PatternSequential:  "Avoid sequential numbers like 123 or 789",
	PatternKeyboard:    "Avoid keyboard patterns (qwerty, asdfgh, etc.)",
}

// recommend merges scorer feedback, length and variety advice, and
// pattern-specific call-outs. Duplicates are dropped keeping first-seen
// order; the caller caps the final list.
func recommend(score int, c Characteristics) []string {
	var recs []string

	if score <= 1 {
		recs = append(recs,
			"Use a passphrase with random words for better memorability",
			"Consider using a password manager to generate and store strong passwords",
		)
	}
	if c.Length < 12 {
		recs = append(recs, "Use at least 12 characters; 16 or more is better")
	} else if c.Length < 16 {
		recs = append(recs, "Increase password length to 16+ characters")
	}
	if c.ClassCount() < 3 {
		recs = append(recs, "Mix uppercase, lowercase, numbers, and special characters")
	}
	for _, p := range c.Patterns {
		if r, ok := patternRecommendations[p]; ok {
			recs = append(recs, r)
		}
	}
	if c.Length >= 16 && c.ClassCount() == 4 {
		recs = append(recs, positiveRecommendation)
	}
	if len(recs) == 0 && score < 4 {
		recs = append(recs, "Avoid using personal information (names, birthdates)")
	}
	return dedup(recs)
}

func emptyPasswordRecs() []string {
	return append([]string(nil), defaultRecommendations[:3]...)
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func capRecs(in []string, max int) []string {
	if max > 0 && len(in) > max {
		return in[:max]
	}
	return in
}
