package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreEmptyPassword(t *testing.T) {
	a := Score("")
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, "Very Weak", a.Strength)
	assert.Equal(t, 0.0, a.EntropyBits)
	assert.Equal(t, "instant", a.CrackTime)
	assert.Empty(t, a.Characteristics.Patterns)
}

func TestScoreBoundsAndLabelBijection(t *testing.T) {
	passwords := []string{
		"", "a", "password", "password123", "Correct1!", "qwerty",
		"Tr0ub4dor&3", "correct horse battery staple", "aaaaaaaaaaaa",
		"zA9$kQ2#pL5!wX8@", "123456789", "P@ssw0rd",
	}
	for _, pwd := range passwords {
		a := Score(pwd)
		require.GreaterOrEqual(t, a.Score, 0, "password %q", pwd)
		require.LessOrEqual(t, a.Score, 4, "password %q", pwd)
		assert.Equal(t, Label(a.Score), a.Strength, "password %q", pwd)
	}
}

func TestScoreGuessabilityRanking(t *testing.T) {
	// Long but dictionary-based must rank below shorter high-entropy.
	weak := Score("passwordpassword123")
	strong := Score("kT7#qZ2!p")
	assert.Less(t, weak.Score, strong.Score)
}

func TestScoreExampleScenarios(t *testing.T) {
	a := Score("Correct1!")
	assert.True(t, a.Score >= 2 && a.Score <= 3, "got score %d", a.Score)
	assert.True(t, a.Characteristics.HasSpecial)
	assert.Empty(t, a.Characteristics.Patterns)

	b := Score("password123")
	assert.LessOrEqual(t, b.Score, 1)
	assert.Contains(t, b.Characteristics.Patterns, PatternCommonWords)
	assert.Contains(t, b.Characteristics.Patterns, PatternSequential)
}

func TestScoreDeterministic(t *testing.T) {
	first := Score("Some-Pass-2024!")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score("Some-Pass-2024!"))
	}
}

func TestRecommendationsNoDuplicates(t *testing.T) {
	for _, pwd := range []string{"", "password123", "abcabcabc", "qwerty111", "Zk9$mQ4#xL7!pW2@"} {
		a := Score(pwd)
		seen := map[string]struct{}{}
		for _, r := range a.Recommendations {
			_, dup := seen[r]
			require.False(t, dup, "duplicate recommendation %q for %q", r, pwd)
			seen[r] = struct{}{}
		}
	}
}

func TestRecommendationsCap(t *testing.T) {
	a := ScoreWithLimit("password123", 2)
	assert.LessOrEqual(t, len(a.Recommendations), 2)
}

func TestRecommendationsPositiveReinforcement(t *testing.T) {
	a := Score("Zk9$mQ4#xL7!pW2@")
	require.Equal(t, 4, a.Score)
	assert.Contains(t, a.Recommendations, positiveRecommendation)
}

func TestCrackTimeBuckets(t *testing.T) {
	assert.Equal(t, "instant", displayCrackTime(0.5))
	assert.Equal(t, "less than a minute", displayCrackTime(30))
	assert.Equal(t, "5 minutes", displayCrackTime(5*60))
	assert.Equal(t, "centuries", displayCrackTime(1e12))
}
