package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/typeinfer"
)

// emitInteger lowers an integer literal: a suffix is kept
// verbatim, an unsuffixed literal defaults to i32.
func emitInteger(lit *ast.IntegerLit) string {
	return typeinfer.FormatIntegerLiteral(lit.Value, lit.Suffix)
}

// emitFloat lowers a float literal the same way: the written digits are
// copied verbatim, so the emitted digits never drift from what was
// written.
func emitFloat(lit *ast.FloatLit) string {
	return typeinfer.FormatFloatLiteral(lit.Value, lit.Suffix)
}

func emitCharLit(lit *ast.CharLit) string {
	return "'" + escapeRuneForRust(lit.Value) + "'"
}

func escapeRuneForRust(r rune) string {
	switch r {
	case '\'':
		return "\\'"
	case '\\':
		return "\\\\"
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	default:
		return string(r)
	}
}

// rustStringLiteral renders a Go string value as a double-quoted Rust
// string literal, escaping characters Rust's lexer would otherwise choke
// on or misinterpret.
func rustStringLiteral(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// emitInterpolation lowers a StringInterpolation (an f-string) into a
// format-macro-ready (format-string, args) pair; callers decide whether
// to wrap it in format!/println!/etc.
func emitInterpolation(t *Transpiler, interp *ast.StringInterpolation) (format string, args []string, err error) {
	var fmtStr strings.Builder
	for _, part := range interp.Parts {
		if part.Expr == nil {
			fmtStr.WriteString(escapeBraces(part.Text))
			continue
		}
		fmtStr.WriteString("{}")
		a, err := t.exprString(part.Expr)
		if err != nil {
			return "", nil, err
		}
		args = append(args, a)
	}
	return fmtStr.String(), args, nil
}

// escapeBraces doubles literal braces in an f-string's text segments so the
// format macro doesn't mistake them for placeholders; the source's own
// `{{`/`}}` escapes have already been unescaped to `{`/`}` by the lexer, so
// re-doubling here recovers the literal brace the author wrote.
func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	s = strings.ReplaceAll(s, "}", "}}")
	return s
}

// hasPlaceholders reports whether a literal format string (the first
// argument to println/print) already contains `{}` placeholders, in which
// case it is preserved as-is rather than synthesized.
func hasPlaceholders(s string) bool {
	return strings.Contains(s, "{}")
}
