// File path: internal/disasm/x86elf.go
// x86-64 ELF adapter: debug/elf for section and symbol table parsing (the
// same stdlib package Dhruvchaudhary255/reverse and maxgio92/prologo build
// on), golang.org/x/arch/x86/x86asm for instruction decoding, and
// github.com/ianlancetaylor/demangle to recover readable C++ names from
// the mangled symbols ELF object files carry.
//
// Decode skips STT_FUNC symbols whose bytes it cannot locate (data symbols,
// stripped sections), so the symbol_idx an ingested Symbol is stored under
// is an ordinal into Decode's post-skip output, not into the raw ELF symbol
// table. decodableFunctionSymbols centralizes that filtering so DecodeOne
// walks the identical sequence and stays aligned with it.
package disasm

import (
	"context"
	"debug/elf"
	"fmt"
	"sort"
	"strings"

	"github.com/ianlancetaylor/demangle"
	"golang.org/x/arch/x86/x86asm"

	"github.com/coddog/coddog/internal/instr"
)

func init() {
	Register(&x86ELFDecoder{})
}

type x86ELFDecoder struct{}

func (*x86ELFDecoder) Name() string { return "x86-64-elf" }

func (*x86ELFDecoder) Match(path string) bool {
	f, err := elf.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return f.Machine == elf.EM_X86_64
}

type funcSym struct {
	name string
	addr uint64
	size uint64
}

func functionSymbols(f *elf.File) ([]funcSym, error) {
	syms, err := f.Symbols()
	if err != nil {
		return nil, fmt.Errorf("read elf symbols: %w", err)
	}
	out := make([]funcSym, 0, len(syms))
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Size == 0 {
			continue
		}
		out = append(out, funcSym{name: sym.Name, addr: sym.Value, size: sym.Size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].addr < out[j].addr })
	return out, nil
}

func textBytesAt(f *elf.File, addr, size uint64) ([]byte, error) {
	for _, sec := range f.Sections {
		if sec.Addr == 0 || addr < sec.Addr || addr+size > sec.Addr+sec.Size {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", sec.Name, err)
		}
		off := addr - sec.Addr
		return data[off : off+size], nil
	}
	return nil, fmt.Errorf("no section contains address %#x", addr)
}

func demangleName(name string) string {
	if result := demangle.Filter(name); result != name {
		return result
	}
	return name
}

// decodableFunctionSymbol pairs a funcSym with the bytes Decode needs to
// disassemble it; functions whose bytes cannot be located are omitted
// entirely rather than represented as an error, so the slice's order and
// length exactly match what Decode emits.
type decodableFunctionSymbol struct {
	fn   funcSym
	code []byte
}

func decodableFunctionSymbols(f *elf.File) ([]decodableFunctionSymbol, error) {
	funcs, err := functionSymbols(f)
	if err != nil {
		return nil, err
	}
	out := make([]decodableFunctionSymbol, 0, len(funcs))
	for _, fn := range funcs {
		code, err := textBytesAt(f, fn.addr, fn.size)
		if err != nil {
			continue // data symbol or stripped section; skip rather than fail the whole object
		}
		out = append(out, decodableFunctionSymbol{fn: fn, code: code})
	}
	return out, nil
}

func (d *x86ELFDecoder) Decode(ctx context.Context, path string) ([]DecodedSymbol, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elf %s: %w", path, err)
	}
	defer f.Close()

	decodable, err := decodableFunctionSymbols(f)
	if err != nil {
		return nil, err
	}
	out := make([]DecodedSymbol, 0, len(decodable))
	for _, d := range decodable {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, DecodedSymbol{
			Name:         demangleName(d.fn.name),
			Instructions: decodeX86Stream(d.code, d.fn.addr),
		})
	}
	return out, nil
}

func (d *x86ELFDecoder) DecodeOne(ctx context.Context, path string, symbolIdx int) (DecodedSymbol, error) {
	f, err := elf.Open(path)
	if err != nil {
		return DecodedSymbol{}, fmt.Errorf("open elf %s: %w", path, err)
	}
	defer f.Close()
	decodable, err := decodableFunctionSymbols(f)
	if err != nil {
		return DecodedSymbol{}, err
	}
	if symbolIdx < 0 || symbolIdx >= len(decodable) {
		return DecodedSymbol{}, fmt.Errorf("symbol index %d out of range (%d symbols)", symbolIdx, len(decodable))
	}
	sym := decodable[symbolIdx]
	return DecodedSymbol{Name: demangleName(sym.fn.name), Instructions: decodeX86Stream(sym.code, sym.fn.addr)}, nil
}

func decodeX86Stream(code []byte, baseAddr uint64) instr.Stream {
	var stream instr.Stream
	for offset := 0; offset < len(code); {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil || inst.Len == 0 {
			offset++
			continue
		}
		stream = append(stream, toInstruction(inst, baseAddr+uint64(offset)))
		offset += inst.Len
	}
	return stream
}

func toInstruction(inst x86asm.Inst, addr uint64) instr.Instruction {
	out := instr.Instruction{
		Opcode:  strings.ToLower(inst.Op.String()),
		Address: addr,
	}
	for _, arg := range inst.Args {
		if arg == nil {
			continue
		}
		out.Operands = append(out.Operands, classifyOperand(arg))
	}
	return out
}

func classifyOperand(arg x86asm.Arg) instr.Operand {
	switch v := arg.(type) {
	case x86asm.Reg:
		return instr.Operand{Kind: instr.Register, Text: v.String()}
	case x86asm.Imm:
		return instr.Operand{Kind: instr.Immediate, Text: fmt.Sprintf("%#x", int64(v))}
	case x86asm.Rel:
		return instr.Operand{Kind: instr.BranchTarget, Text: fmt.Sprintf("%#x", int32(v))}
	case x86asm.Mem:
		return instr.Operand{Kind: instr.Register, Text: v.String()}
	default:
		return instr.Operand{Kind: instr.Immediate, Text: arg.String()}
	}
}
