package questions

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

type Question struct {
	ID   int    `json:"id"`
	Text string `json:"question"`
}

// Fixed catalogue used for account recovery. IDs are stable; stored answers
// reference them.
var Catalog = []Question{
	{1, "What is the name of your pet?"},
	{2, "What city were you born in?"},
	{3, "What is your mother's maiden name?"},
	{4, "What was the name of your first school?"},
	{5, "What is your favorite book?"},
	{6, "What street did you grow up on?"},
	{7, "What is your favorite food?"},
	{8, "What is the name of your best friend?"},
}

func ValidID(id int) bool {
	for _, q := range Catalog {
		if q.ID == id {
			return true
		}
	}
	return false
}

// ValidateAnswer bounds the raw answer before normalization.
func ValidateAnswer(answer string) (string, bool) {
	a := strings.TrimSpace(answer)
	n := utf8.RuneCountInString(a)
	return a, n >= 2 && n <= 100
}

// NormalizeAnswer makes answer comparison forgiving: NFKC-normalized,
// trimmed, lowercased. Hashing happens on the normalized form.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(answer)))
}
