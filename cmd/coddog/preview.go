// File path: cmd/coddog/preview.go
// Disassembly preview: renders a decoded instruction stream as
// assembly-flavored text and syntax-highlights it with
// github.com/alecthomas/chroma/v2, the same lexer/formatter pairing
// Dhruvchaudhary255/reverse's colorize package uses for its ARM/x86
// disassembly views.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/coddog/coddog/internal/disasm"
)

func renderSymbolPreview(sym disasm.DecodedSymbol) string {
	var body strings.Builder
	fmt.Fprintf(&body, "%s:\n", sym.Name)
	for _, in := range sym.Instructions {
		fmt.Fprintf(&body, "  %#08x  %s", in.Address, in.Opcode)
		for i, op := range in.Operands {
			if i == 0 {
				body.WriteString(" ")
			} else {
				body.WriteString(", ")
			}
			body.WriteString(op.Text)
		}
		body.WriteString("\n")
	}
	return colorizeAssembly(body.String())
}

func colorizeAssembly(code string) string {
	if os.Getenv("CODDOG_NO_COLOR") != "" {
		return code
	}
	lexer := assemblyLexer()
	if lexer == nil {
		return code
	}
	style := disasmStyle()
	formatter := terminalFormatter()

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var out strings.Builder
	if err := formatter.Format(&out, style, iterator); err != nil {
		return code
	}
	return out.String()
}

func assemblyLexer() chroma.Lexer {
	for _, name := range []string{"nasm", "gas", "GAS"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func disasmStyle() *chroma.Style {
	for _, name := range []string{"dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func terminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}
