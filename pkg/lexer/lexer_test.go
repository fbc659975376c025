package lexer

import (
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/source"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	buf, err := source.New("test.ruchy", src)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	l := New(buf)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next on %q: %v", src, err)
		}
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	got := kinds(lexAll(t, src))
	if len(got) != len(want) {
		t.Fatalf("lex %q: want %v, got %v", src, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lex %q: token %d: want %v, got %v", src, i, want[i], got[i])
		}
	}
}

func TestMaximalMunchShiftAssign(t *testing.T) {
	// <<= must not split into << = or < <=.
	assertKinds(t, "x <<= 1", token.Ident, token.ShlEq, token.Int)
	assertKinds(t, "x << 1", token.Ident, token.Shl, token.Int)
	assertKinds(t, "x <= 1", token.Ident, token.LtEq, token.Int)
	assertKinds(t, "x < 1", token.Ident, token.Lt, token.Int)
}

func TestRangeOperators(t *testing.T) {
	assertKinds(t, "0..10", token.Int, token.DotDot, token.Int)
	assertKinds(t, "0..=10", token.Int, token.DotDotEq, token.Int)
}

func TestSingleQuoteEquivalence(t *testing.T) {
	// One char between single quotes is a Char, more is a
	// String; double quotes always produce a String.
	toks := lexAll(t, "'a'")
	if toks[0].Kind != token.Char {
		t.Fatalf("'a': want Char, got %v", toks[0].Kind)
	}
	toks = lexAll(t, "'hello'")
	if toks[0].Kind != token.String || toks[0].Text != "hello" {
		t.Fatalf("'hello': want String %q, got %v %q", "hello", toks[0].Kind, toks[0].Text)
	}
	toks = lexAll(t, `"a"`)
	if toks[0].Kind != token.String {
		t.Fatalf(`"a": want String, got %v`, toks[0].Kind)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\t\\\""`)
	if toks[0].Text != "a\nb\t\\\"" {
		t.Fatalf("want decoded escapes, got %q", toks[0].Text)
	}
}

func TestInvalidEscapeIsError(t *testing.T) {
	buf, _ := source.New("test.ruchy", `"\z"`)
	l := New(buf)
	if _, err := l.Next(); err == nil {
		t.Fatal("want error for invalid escape")
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	buf, _ := source.New("test.ruchy", `"abc`)
	l := New(buf)
	if _, err := l.Next(); err == nil {
		t.Fatal("want error for unterminated string")
	}
}

func TestNumericSuffixes(t *testing.T) {
	toks := lexAll(t, "42u64 3.5f32 7i8")
	if toks[0].Suffix != "u64" || toks[0].Kind != token.Int {
		t.Fatalf("42u64: got %v %q", toks[0].Kind, toks[0].Suffix)
	}
	if toks[1].Suffix != "f32" || toks[1].Kind != token.Float {
		t.Fatalf("3.5f32: got %v %q", toks[1].Kind, toks[1].Suffix)
	}
	if toks[2].Suffix != "i8" {
		t.Fatalf("7i8: got suffix %q", toks[2].Suffix)
	}
}

func TestInvalidSuffixIsError(t *testing.T) {
	buf, _ := source.New("test.ruchy", "42xyz")
	l := New(buf)
	if _, err := l.Next(); err == nil {
		t.Fatal("want error for invalid numeric suffix")
	}
}

func TestHexBinOctLiterals(t *testing.T) {
	toks := lexAll(t, "0xFF 0b101 0o77")
	for i, want := range []string{"0xFF", "0b101", "0o77"} {
		if toks[i].Kind != token.Int || toks[i].Text != want {
			t.Fatalf("token %d: want Int %q, got %v %q", i, want, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestIntSuffixAfterHex(t *testing.T) {
	toks := lexAll(t, "0xFFu8")
	if toks[0].Text != "0xFF" || toks[0].Suffix != "u8" {
		t.Fatalf("got %q suffix %q", toks[0].Text, toks[0].Suffix)
	}
}

func TestFStringTokenRun(t *testing.T) {
	assertKinds(t, `f"a{x}b"`,
		token.FStringStart, token.FStringText, token.FStringExprStart,
		token.Ident, token.FStringExprEnd, token.FStringText, token.FStringEnd)
}

func TestFStringDoubledBracesAreLiteral(t *testing.T) {
	toks := lexAll(t, `f"{{ok}}"`)
	if toks[1].Kind != token.FStringText || toks[1].Text != "{ok}" {
		t.Fatalf("want literal-brace text {ok}, got %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestFStringNestedBracesInExpr(t *testing.T) {
	// An object literal inside the embedded expression must not end it.
	assertKinds(t, `f"{ {"a": 1} }"`,
		token.FStringStart, token.FStringExprStart,
		token.LBrace, token.String, token.Colon, token.Int, token.RBrace,
		token.FStringExprEnd, token.FStringEnd)
}

func TestIdentifierStartingWithFIsNotAnFString(t *testing.T) {
	assertKinds(t, "foo + f", token.Ident, token.Plus, token.Ident)
}

func TestKeywordsAndFnAlias(t *testing.T) {
	assertKinds(t, "fun f", token.Fun, token.Ident)
	assertKinds(t, "fn f", token.Fun, token.Ident)
}

func TestLineCommentAttachesToNextToken(t *testing.T) {
	toks := lexAll(t, "// leading\nx")
	if len(toks[0].Leading) != 1 || toks[0].Leading[0].Text != "// leading" {
		t.Fatalf("want leading comment on x, got %+v", toks[0].Leading)
	}
	if toks[0].Leading[0].SameLine {
		t.Fatal("comment on its own line must not be marked same-line")
	}
}

func TestTrailingCommentMarkedSameLine(t *testing.T) {
	toks := lexAll(t, "x // trailing\ny")
	// The trailing comment rides ahead of y in the stream but is marked
	// as same-line so the parser can attach it to x.
	if len(toks) != 2 {
		t.Fatalf("want 2 tokens, got %d", len(toks))
	}
	if len(toks[1].Leading) != 1 || !toks[1].Leading[0].SameLine {
		t.Fatalf("want same-line trailing comment, got %+v", toks[1].Leading)
	}
}

func TestBlockComment(t *testing.T) {
	toks := lexAll(t, "/* block */ x")
	if len(toks[0].Leading) != 1 || !toks[0].Leading[0].Block {
		t.Fatalf("want block comment attached, got %+v", toks[0].Leading)
	}
}

func TestSpansAreByteOffsets(t *testing.T) {
	toks := lexAll(t, "ab + cd")
	if toks[0].Span != (token.Span{Start: 0, End: 2}) {
		t.Fatalf("ab span: got %+v", toks[0].Span)
	}
	if toks[2].Span != (token.Span{Start: 5, End: 7}) {
		t.Fatalf("cd span: got %+v", toks[2].Span)
	}
}
