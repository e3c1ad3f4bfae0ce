// File path: internal/instr/instruction.go
// Package instr defines the instruction stream contract that every
// disassembler adapter produces and every normalizer consumes.
package instr

// OperandKind classifies one operand so the normalizer can decide, per
// canonical form, whether to keep it verbatim or collapse it to a sentinel.
type OperandKind uint8

const (
	// Register operands keep their identity at every fidelity; a function
	// that shuffles register allocation is not considered equivalent.
	Register OperandKind = iota
	// Immediate operands are numeric literals; they collapse to a sentinel
	// in the Equivalence form.
	Immediate
	// Symbolic operands reference another symbol or relocation target; they
	// collapse to a sentinel in the Equivalence form, with the addend dropped.
	Symbolic
	// BranchTarget operands are PC-relative control-flow destinations; they
	// collapse to an is-branch sentinel in the Equivalence form.
	BranchTarget
)

// Operand is one instruction argument together with the classification the
// normalizer needs to build the Equivalence canonical form.
type Operand struct {
	Kind OperandKind
	// Text is the verbatim rendering used by the Exact canonical form.
	Text string
	// Addend is the constant offset on a Symbolic operand, dropped by the
	// Equivalence form.
	Addend int64
}

// Instruction is one disassembled machine instruction, already translated
// into a display-agnostic, architecture-agnostic shape. Disassembler
// adapters are the only producers of this type; nothing downstream knows
// about ELF sections, MIPS opcode tables, or relocation records.
type Instruction struct {
	// Opcode is the mnemonic tag, e.g. "addiu", "mov", "bl".
	Opcode string
	// Operands are the ordered argument list.
	Operands []Operand
	// Address is the instruction's virtual address within its Object.
	Address uint64
	// Symbol is the name of a referenced symbol, for adapters that resolve
	// one from a Symbolic or BranchTarget operand. The x86-64 ELF adapter
	// leaves it empty.
	Symbol string
}

// Stream is the ordered sequence of Instructions making up one Symbol.
type Stream []Instruction
