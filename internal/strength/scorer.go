package strength

import (
	"math"
	"strconv"
	"strings"
)

// Analysis is the full result of scoring one password. It is computed per
// request and never persisted.
type Analysis struct {
	Score           int             `json:"score"`
	Strength        string          `json:"strength"`
	EntropyBits     float64         `json:"entropy"`
	CrackTime       string          `json:"crack_time"`
	Characteristics Characteristics `json:"characteristics"`
	Recommendations []string        `json:"recommendations"`
}

var strengthLabels = [5]string{"Very Weak", "Weak", "Fair", "Strong", "Very Strong"}

// Label returns the strength label for a 0..4 score.
func Label(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}
	return strengthLabels[score]
}

// DefaultMaxRecommendations is used by full-analysis endpoints; inline
// verification paths typically pass 5.
const DefaultMaxRecommendations = 10

// Throttled online attacker model: 100 guesses per 10 seconds.
const guessesPerSecond = 10

// Score analyzes a password with the default recommendation cap.
func Score(pwd string) Analysis {
	return ScoreWithLimit(pwd, DefaultMaxRecommendations)
}

// ScoreWithLimit produces the full analysis, capping recommendations at
// maxRecs. Scoring is guessability-based: matched dictionary tokens,
// sequences, repeats and keyboard walks cost an attacker far less than their
// raw character space, so a long but pattern-heavy password ranks below a
// shorter random one.
func ScoreWithLimit(pwd string, maxRecs int) Analysis {
	if pwd == "" {
		return Analysis{
			Score:           0,
			Strength:        Label(0),
			EntropyBits:     0,
			CrackTime:       "instant",
			Characteristics: Characteristics{},
			Recommendations: capRecs(emptyPasswordRecs(), maxRecs),
		}
	}

	chars := Analyze(pwd)
	bits := guessBits(pwd)
	score := scoreFromBits(bits)
	if max := lengthCap(chars.Length); score > max {
		score = max
	}

	return Analysis{
		Score:           score,
		Strength:        Label(score),
		EntropyBits:     Entropy(pwd),
		CrackTime:       displayCrackTime(math.Exp2(bits) / guessesPerSecond),
		Characteristics: chars,
		Recommendations: capRecs(recommend(score, chars), maxRecs),
	}
}

// guessBits estimates log2(guesses) for an attacker that knows the common
// dictionaries and pattern families. The password is segmented greedily,
// longest match first; matched segments cost their rank, unmatched runes
// cost their character class. The result never exceeds the brute-force bound.
func guessBits(pwd string) float64 {
	runes := []rune(strings.ToLower(pwd))
	var bits float64
	for i := 0; i < len(runes); {
		if n, b, ok := bestMatch(runes[i:]); ok {
			bits += b
			i += n
			continue
		}
		bits += charBits(runes[i])
		i++
	}
	if bf := Entropy(pwd); bits > bf && bf > 0 {
		bits = bf
	}
	return bits
}

// bestMatch tries each pattern family at the start of rest and keeps the
// longest match (cheapest on ties). Returns consumed runes and bit cost.
func bestMatch(rest []rune) (int, float64, bool) {
	bestN, bestBits := 0, 0.0

	consider := func(n int, b float64) {
		if n > bestN || (n == bestN && b < bestBits) {
			bestN, bestBits = n, b
		}
	}

	s := string(rest)
	for rank, tok := range weakTokens {
		if strings.HasPrefix(s, tok) {
			consider(len([]rune(tok)), math.Log2(float64(rank+2))+1)
		}
	}
	for rank, walk := range keyboardWalks {
		if strings.HasPrefix(s, walk) {
			consider(len([]rune(walk)), math.Log2(float64(rank+2))+2)
		}
	}
	if n := sequentialRunLen(rest); n >= 3 {
		// 10 starting digits, 2 directions, then length.
		consider(n, math.Log2(10)+1+math.Log2(float64(n)))
	}
	if n := repeatRunLen(rest); n >= 3 {
		consider(n, charBits(rest[0])+math.Log2(float64(n)))
	}

	if bestN == 0 {
		return 0, 0, false
	}
	return bestN, bestBits, true
}

func sequentialRunLen(rest []rune) int {
	if len(rest) < 2 || rest[0] < '0' || rest[0] > '9' {
		return 0
	}
	dir := int(rest[1]) - int(rest[0])
	if dir != 1 && dir != -1 {
		return 0
	}
	n := 1
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' && int(rest[n])-int(rest[n-1]) == dir {
		n++
	}
	return n
}

func repeatRunLen(rest []rune) int {
	n := 1
	for n < len(rest) && rest[n] == rest[0] {
		n++
	}
	return n
}

func charBits(r rune) float64 {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return math.Log2(lowerSize)
	case r >= '0' && r <= '9':
		return math.Log2(digitSize)
	default:
		return math.Log2(specialSize)
	}
}

// scoreFromBits maps estimated guesses to the 0..4 tier using the usual
// guessability thresholds (10^3, 10^6, 10^8, 10^10 guesses).
func scoreFromBits(bits float64) int {
	guesses := math.Exp2(bits)
	switch {
	case guesses < 1e3:
		return 0
	case guesses < 1e6:
		return 1
	case guesses < 1e8:
		return 2
	case guesses < 1e10:
		return 3
	default:
		return 4
	}
}

// lengthCap bounds the tier by raw length: short passwords never rate
// Strong no matter how random they look.
func lengthCap(length int) int {
	switch {
	case length >= 14:
		return 4
	case length >= 11:
		return 3
	case length >= 8:
		return 2
	case length >= 6:
		return 1
	default:
		return 0
	}
}

func displayCrackTime(seconds float64) string {
	const (
		minute  = 60
		hour    = 60 * minute
		day     = 24 * hour
		month   = 31 * day
		year    = 365 * day
		century = 100 * year
	)
	switch {
	case seconds < 1:
		return "instant"
	case seconds < minute:
		return "less than a minute"
	case seconds < hour:
		return plural(seconds/minute, "minute")
	case seconds < day:
		return plural(seconds/hour, "hour")
	case seconds < month:
		return plural(seconds/day, "day")
	case seconds < year:
		return plural(seconds/month, "month")
	case seconds < century:
		return plural(seconds/year, "year")
	default:
		return "centuries"
	}
}

func plural(n float64, unit string) string {
	v := int(math.Round(n))
	if v <= 1 {
		return "1 " + unit
	}
	return strconv.Itoa(v) + " " + unit + "s"
}
