// File path: internal/hashfp/hash.go
// Package hashfp implements the Normalizer and Hasher from the core
// pipeline: it turns an instr.Instruction into three canonical forms
// (opcode-only, equivalence, exact) and folds any canonical-form stream
// into a deterministic 64-bit fingerprint using a seeded SipHash, the same
// hash family the original tool relied on for its per-symbol hashes.
package hashfp

import (
	"strings"

	"github.com/dchest/siphash"

	"github.com/coddog/coddog/internal/instr"
)

// Seed is the deployment-wide SipHash key. It must be identical across
// every ingestion and lookup path or fingerprints stop comparing.
type Seed struct {
	K0, K1 uint64
}

// Sum64 hashes data under the seed.
func (s Seed) Sum64(data []byte) uint64 {
	return siphash.Hash(s.K0, s.K1, data)
}

// Fidelity selects one of the three canonical forms.
type Fidelity int

const (
	Opcode Fidelity = iota
	Equivalent
	Exact
)

const (
	immediateSentinel = "#imm"
	branchSentinel    = "#br"
	symbolSentinel    = "#sym"
	argSep            = "\x01"
	insnSep           = "\x02"
)

// Canonical renders one instruction's canonical form at the requested
// fidelity as a self-delimiting byte string suitable for hashing or for
// concatenation into a whole-stream fingerprint.
func Canonical(in instr.Instruction, f Fidelity) string {
	var b strings.Builder
	b.WriteString(in.Opcode)
	if f == Opcode {
		return b.String()
	}
	for _, op := range in.Operands {
		b.WriteString(argSep)
		switch f {
		case Exact:
			b.WriteString(op.Text)
		case Equivalent:
			switch op.Kind {
			case instr.Register:
				b.WriteString(op.Text)
			case instr.Immediate:
				b.WriteString(immediateSentinel)
			case instr.BranchTarget:
				b.WriteString(branchSentinel)
			case instr.Symbolic:
				b.WriteString(symbolSentinel)
			}
		}
	}
	return b.String()
}

// InstructionHash hashes a single instruction's canonical form at the
// requested fidelity. This is the per-instruction window hash input when
// f == Equivalent (see window.Extract).
func InstructionHash(seed Seed, in instr.Instruction, f Fidelity) uint64 {
	return seed.Sum64([]byte(Canonical(in, f)))
}

// StreamFingerprint folds an entire instruction stream's canonical forms,
// at one fidelity, into the symbol's whole-function fingerprint.
func StreamFingerprint(seed Seed, stream instr.Stream, f Fidelity) uint64 {
	var b strings.Builder
	for i, in := range stream {
		if i > 0 {
			b.WriteString(insnSep)
		}
		b.WriteString(Canonical(in, f))
	}
	return seed.Sum64([]byte(b.String()))
}

// Fingerprints bundles the three whole-function fingerprints computed for a
// Symbol at ingestion time.
type Fingerprints struct {
	Opcode uint64
	Equiv  uint64
	Exact  uint64
}

// ComputeFingerprints derives all three fidelities for a stream in one pass.
func ComputeFingerprints(seed Seed, stream instr.Stream) Fingerprints {
	return Fingerprints{
		Opcode: StreamFingerprint(seed, stream, Opcode),
		Equiv:  StreamFingerprint(seed, stream, Equivalent),
		Exact:  StreamFingerprint(seed, stream, Exact),
	}
}

// EquivalenceStream returns the per-instruction Equivalence-fidelity hash
// for every instruction in the stream, in order. This is the stream the
// Window Extractor slides over.
func EquivalenceStream(seed Seed, stream instr.Stream) []uint64 {
	out := make([]uint64, len(stream))
	for i, in := range stream {
		out[i] = InstructionHash(seed, in, Equivalent)
	}
	return out
}
