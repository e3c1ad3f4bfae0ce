package slug

import (
	"errors"
	"testing"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s) != Length {
		t.Fatalf("len(s) = %d, want %d", len(s), Length)
	}
	for _, r := range s {
		if !isAlphabetRune(r) {
			t.Fatalf("slug %q contains unexpected rune %q", s, r)
		}
	}
}

func isAlphabetRune(r rune) bool {
	for _, a := range alphabet {
		if a == r {
			return true
		}
	}
	return false
}

func TestGeneratorNextRetriesOnCollision(t *testing.T) {
	seen := map[string]bool{}
	calls := 0
	g := Generator{
		Exists: func(candidate string) (bool, error) {
			calls++
			// Force the first three candidates to collide, regardless of value.
			return calls <= 3, nil
		},
	}
	out, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if calls < 4 {
		t.Fatalf("expected at least 4 Exists calls before success, got %d", calls)
	}
	if seen[out] {
		t.Fatalf("unexpected duplicate slug %q", out)
	}
}

func TestGeneratorNextExhausted(t *testing.T) {
	g := Generator{
		MaxAttempts: 3,
		Exists: func(candidate string) (bool, error) {
			return true, nil
		},
	}
	_, err := g.Next()
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
}

func TestGeneratorNextNilExists(t *testing.T) {
	g := Generator{}
	if _, err := g.Next(); err != nil {
		t.Fatalf("Next with nil Exists: %v", err)
	}
}
