// File path: internal/disasm/decoder.go
// Package disasm is the disassembler adapter: the one external
// collaborator spec.md names without dictating an implementation. The
// registry pattern below is adapted from the teacher's Analyzer registry
// (internal/kb/registry.go in the source project), generalized from
// "match a file, parse it into Docs" to "match an Object, decode it into
// per-symbol Instruction streams."
package disasm

import (
	"context"
	"fmt"

	"github.com/coddog/coddog/internal/instr"
)

// DecodedSymbol is one function extracted from an Object: its name (as
// returned by the adapter, already demangled where the adapter demangles)
// and ordered instruction stream.
type DecodedSymbol struct {
	Name         string
	IsDecompiled bool
	Instructions instr.Stream
}

// Decoder turns one Object's on-disk blob into its constituent Symbols.
// Decoder selection happens through Resolve, which asks each registered
// Decoder's Match to inspect the blob; a descriptor's platform tag is not
// consulted.
type Decoder interface {
	Name() string
	// Match reports whether this Decoder can handle the blob at path,
	// inspecting its header rather than trusting the file extension.
	Match(path string) bool
	Decode(ctx context.Context, path string) ([]DecodedSymbol, error)
	// DecodeOne decodes a single symbol by ordinal, the path get_symbol_instructions
	// uses so it need not re-decode an entire object to rehydrate one stream.
	DecodeOne(ctx context.Context, path string, symbolIdx int) (DecodedSymbol, error)
}

var registry []Decoder

// Register adds a Decoder to the default registry. Adapters call this
// from an init() function, mirroring defaultAnalyzers() in the teacher.
func Register(d Decoder) {
	registry = append(registry, d)
}

// Resolve picks the first registered Decoder that matches path.
func Resolve(path string) (Decoder, error) {
	for _, d := range registry {
		if d.Match(path) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("disasm: no decoder registered for %s", path)
}
