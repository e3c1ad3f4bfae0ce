package disasm

import (
	"context"
	"strings"
	"testing"
)

type stubDecoder struct {
	name    string
	matches func(string) bool
}

func (s stubDecoder) Name() string         { return s.name }
func (s stubDecoder) Match(path string) bool { return s.matches(path) }
func (s stubDecoder) Decode(ctx context.Context, path string) ([]DecodedSymbol, error) {
	return nil, nil
}
func (s stubDecoder) DecodeOne(ctx context.Context, path string, idx int) (DecodedSymbol, error) {
	return DecodedSymbol{}, nil
}

func TestResolvePicksFirstMatchingDecoder(t *testing.T) {
	saved := registry
	t.Cleanup(func() { registry = saved })
	registry = nil

	Register(stubDecoder{name: "a", matches: func(p string) bool { return strings.HasSuffix(p, ".a") }})
	Register(stubDecoder{name: "b", matches: func(p string) bool { return strings.HasSuffix(p, ".b") }})

	d, err := Resolve("foo.b")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Name() != "b" {
		t.Fatalf("Resolve picked %q, want %q", d.Name(), "b")
	}
}

func TestResolveNoMatch(t *testing.T) {
	saved := registry
	t.Cleanup(func() { registry = saved })
	registry = nil

	Register(stubDecoder{name: "a", matches: func(p string) bool { return false }})
	if _, err := Resolve("foo.elf"); err == nil {
		t.Fatal("expected error when no decoder matches")
	}
}
