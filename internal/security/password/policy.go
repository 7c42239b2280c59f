package password

import (
	"context"
	"errors"
	"strings"

	"github.com/Davide1809/password-health-tracker/internal/strength"
)

const (
	// MinLen blocks registration outright.
	MinLen = 8
	// MaxLen bounds every password input accepted by the service.
	MaxLen = 128
	// PolicyMinLen is the bar for generated or recommended-strong passwords.
	PolicyMinLen = 12
)

var (
	ErrTooShort = errors.New("weak_password.length")
	ErrTooLong  = errors.New("weak_password.max_length")
)

type Warning struct {
	Score       int      `json:"score"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Validate trims the password; blocks only on length bounds; returns
// warn-only strength info for anything scoring below Fair.
func Validate(ctx context.Context, pwd string) (trimmed string, warn *Warning, err error) {
	trimmed = strings.TrimSpace(pwd)

	if len(trimmed) < MinLen {
		return trimmed, nil, ErrTooShort
	}
	if len(trimmed) > MaxLen {
		return trimmed, nil, ErrTooLong
	}

	a := strength.ScoreWithLimit(trimmed, 5)
	if a.Score < 3 {
		warn = &Warning{
			Score:       a.Score,
			Message:     "Password rated " + a.Strength + ".",
			Suggestions: a.Recommendations,
		}
	}
	return trimmed, warn, nil
}

// PolicyReport is the generator's self-consistency check: the generator and
// this validator share one definition of "strong".
type PolicyReport struct {
	MeetsPolicy bool     `json:"meets_policy"`
	Errors      []string `json:"validation_errors"`
}

// CheckPolicy enforces the strong-password policy: minimum length plus
// upper and lower case letters and at least three of the four classes.
func CheckPolicy(pwd string) PolicyReport {
	c := strength.Analyze(pwd)

	var errs []string
	if c.Length < PolicyMinLen {
		errs = append(errs, "password must be at least 12 characters")
	}
	if !c.HasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !c.HasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if c.ClassCount() < 3 {
		errs = append(errs, "password must mix at least three character classes")
	}
	return PolicyReport{MeetsPolicy: len(errs) == 0, Errors: errs}
}
