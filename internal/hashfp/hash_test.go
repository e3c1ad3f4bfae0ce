// File path: internal/hashfp/hash_test.go
package hashfp

import (
	"testing"

	"github.com/coddog/coddog/internal/instr"
)

func testSeed() Seed { return Seed{K0: 0x1111111111111111, K1: 0x2222222222222222} }

func sampleStream() instr.Stream {
	return instr.Stream{
		{Opcode: "addiu", Operands: []instr.Operand{
			{Kind: instr.Register, Text: "$t0"},
			{Kind: instr.Register, Text: "$t1"},
			{Kind: instr.Immediate, Text: "4"},
		}},
		{Opcode: "jal", Operands: []instr.Operand{
			{Kind: instr.Symbolic, Text: "memcpy", Addend: 0},
		}},
		{Opcode: "beq", Operands: []instr.Operand{
			{Kind: instr.Register, Text: "$a0"},
			{Kind: instr.Register, Text: "$zero"},
			{Kind: instr.BranchTarget, Text: "loc_4001234"},
		}},
	}
}

// TestIdenticalStreamsPairwiseEqual covers invariant 2.
func TestIdenticalStreamsPairwiseEqual(t *testing.T) {
	seed := testSeed()
	a := ComputeFingerprints(seed, sampleStream())
	b := ComputeFingerprints(seed, sampleStream())
	if a != b {
		t.Fatalf("fingerprints differ for identical streams: %+v vs %+v", a, b)
	}
}

// TestImmediateOnlyDivergence covers invariant 3: streams differing only in
// numeric immediates and relocation symbols agree on equivalent and opcode
// fingerprints but diverge on exact.
func TestImmediateOnlyDivergence(t *testing.T) {
	seed := testSeed()
	original := sampleStream()
	diverged := sampleStream()
	diverged[0].Operands[2].Text = "8"  // different immediate
	diverged[1].Operands[0].Text = "strcpy" // different relocation target

	a := ComputeFingerprints(seed, original)
	b := ComputeFingerprints(seed, diverged)

	if a.Equiv != b.Equiv {
		t.Fatalf("equiv fingerprints diverge: %x vs %x", a.Equiv, b.Equiv)
	}
	if a.Opcode != b.Opcode {
		t.Fatalf("opcode fingerprints diverge: %x vs %x", a.Opcode, b.Opcode)
	}
	if a.Exact == b.Exact {
		t.Fatalf("exact fingerprints should differ")
	}
}

// TestDeterminism covers invariant 7: hashing the same stream twice
// produces identical results.
func TestDeterminism(t *testing.T) {
	seed := testSeed()
	stream := sampleStream()
	first := ComputeFingerprints(seed, stream)
	second := ComputeFingerprints(seed, stream)
	if first != second {
		t.Fatalf("non-deterministic fingerprints: %+v vs %+v", first, second)
	}
	firstEquiv := EquivalenceStream(seed, stream)
	secondEquiv := EquivalenceStream(seed, stream)
	for i := range firstEquiv {
		if firstEquiv[i] != secondEquiv[i] {
			t.Fatalf("non-deterministic equivalence hash at %d", i)
		}
	}
}

// TestOpcodeChangeOnlyAffectsOpcodeFidelity sanity-checks that the opcode
// form really is opcode alone.
func TestOpcodeChangeOnlyAffectsOpcodeFidelity(t *testing.T) {
	seed := testSeed()
	a := instr.Instruction{Opcode: "add", Operands: []instr.Operand{{Kind: instr.Register, Text: "$t0"}}}
	b := instr.Instruction{Opcode: "sub", Operands: []instr.Operand{{Kind: instr.Register, Text: "$t0"}}}
	if InstructionHash(seed, a, Opcode) == InstructionHash(seed, b, Opcode) {
		t.Fatal("opcode hashes should differ for different mnemonics")
	}
}
