package questions

import "testing"

func TestValidID(t *testing.T) {
	for _, q := range Catalog {
		if !ValidID(q.ID) {
			t.Fatalf("catalog id %d not valid", q.ID)
		}
	}
	for _, id := range []int{0, -1, 9, 100} {
		if ValidID(id) {
			t.Fatalf("id %d should not be valid", id)
		}
	}
}

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Fluffy  ", "fluffy"},
		{"FLUFFY", "fluffy"},
		{"ﬂuffy", "fluffy"}, // NFKC folds the ﬂ ligature
		{"São Paulo", "são paulo"},
	}
	for _, c := range cases {
		if got := NormalizeAnswer(c.in); got != c.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateAnswer(t *testing.T) {
	if _, ok := ValidateAnswer("a"); ok {
		t.Error("single rune answer accepted")
	}
	if _, ok := ValidateAnswer("  x  "); ok {
		t.Error("whitespace-padded single rune accepted")
	}
	if a, ok := ValidateAnswer("  ok  "); !ok || a != "ok" {
		t.Errorf("got %q %v", a, ok)
	}
}
