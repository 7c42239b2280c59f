package password

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Davide1809/password-health-tracker/internal/generator"
)

func TestValidateBounds(t *testing.T) {
	ctx := context.Background()

	if _, _, err := Validate(ctx, "short1!"); !errors.Is(err, ErrTooShort) {
		t.Fatalf("want ErrTooShort, got %v", err)
	}
	if _, _, err := Validate(ctx, strings.Repeat("a", 129)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("want ErrTooLong, got %v", err)
	}
	if _, _, err := Validate(ctx, "  padded-password-1  "); err != nil {
		t.Fatalf("trimmed password should pass: %v", err)
	}
}

func TestValidateWarnsOnWeak(t *testing.T) {
	ctx := context.Background()

	_, warn, err := Validate(ctx, "password123")
	if err != nil {
		t.Fatalf("weak password must not be rejected: %v", err)
	}
	if warn == nil {
		t.Fatal("expected a warning for a dictionary password")
	}
	if warn.Score >= 3 {
		t.Fatalf("warning score %d should be below 3", warn.Score)
	}
	if len(warn.Suggestions) == 0 {
		t.Fatal("warning should carry suggestions")
	}

	_, warn, err = Validate(ctx, "Zk9$mQ4#xL7!pW2@")
	if err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}
	if warn != nil {
		t.Fatalf("strong password should not warn, got %+v", warn)
	}
}

func TestCheckPolicy(t *testing.T) {
	r := CheckPolicy("Short1!")
	if r.MeetsPolicy {
		t.Fatal("short password should fail policy")
	}
	if len(r.Errors) == 0 {
		t.Fatal("expected validation errors")
	}

	r = CheckPolicy("LongEnough1!xyz")
	if !r.MeetsPolicy {
		t.Fatalf("expected pass, got errors %v", r.Errors)
	}
}

func TestGeneratedPasswordsMeetPolicy(t *testing.T) {
	for i := 0; i < 25; i++ {
		pwd, err := generator.Generate(16, true, true)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if r := CheckPolicy(pwd); !r.MeetsPolicy {
			t.Fatalf("generated %q fails policy: %v", pwd, r.Errors)
		}
	}
}
