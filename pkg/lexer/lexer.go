// Package lexer tokenizes normalized Ruchy source into a token.Token stream
// with byte spans.
//
// A small stack of lexing modes lets an f-string's embedded `{expr}` fall
// back to full expression lexing and then return to literal-text
// scanning. Numeric-suffix validation, maximal-munch operator
// disambiguation, and the single/double quote equivalence rule all need
// procedural logic, so the lexer is hand-written.
package lexer

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ruchyerr"
	"github.com/ruchy-lang/ruchy/pkg/source"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

type modeKind int

const (
	modeRoot modeKind = iota
	modeFStringText
	modeFStringExpr
)

type mode struct {
	kind  modeKind
	depth int // brace nesting depth while inside a modeFStringExpr frame
}

// Lexer scans one Buffer into a flat token stream, tracking f-string nesting
// via an explicit mode stack rather than recursion so the parser can pull
// tokens lazily with Next/Peek.
type Lexer struct {
	buf     *source.Buffer
	src     string
	pos     int
	modes   []mode
	pending []token.Comment // comments seen since the last real token
}

// New creates a Lexer over buf.
func New(buf *source.Buffer) *Lexer {
	return &Lexer{buf: buf, src: buf.Text, modes: []mode{{kind: modeRoot}}}
}

func (l *Lexer) top() *mode  { return &l.modes[len(l.modes)-1] }
func (l *Lexer) push(m mode) { l.modes = append(l.modes, m) }
func (l *Lexer) pop() {
	if len(l.modes) > 1 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }
func (l *Lexer) cur() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}
func (l *Lexer) at(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

// Next returns the next token in the stream, or an io-style token.EOF token
// when exhausted. Malformed constructs are reported as *ruchyerr.Error
// via the returned error, never as a panic.
func (l *Lexer) Next() (token.Token, error) {
	switch l.top().kind {
	case modeFStringText:
		return l.lexFStringText()
	default:
		return l.lexRoot()
	}
}

func (l *Lexer) lexRoot() (token.Token, error) {
	for {
		l.skipWhitespaceAndComments()
		if l.eof() {
			return token.Token{Kind: token.EOF, Span: token.Span{Start: l.pos, End: l.pos}, Leading: l.takeComments()}, nil
		}
		break
	}
	start := l.pos
	c := l.cur()

	switch {
	case c == 'f' && (l.at(1) == '"' || l.at(1) == '\''):
		return l.lexFStringStart(start)
	case isIdentStart(c):
		return l.lexIdentOrKeyword(start), nil
	case isDigit(c):
		return l.lexNumber(start)
	case c == '"':
		return l.lexQuoted(start, '"')
	case c == '\'':
		return l.lexQuoted(start, '\'')
	}

	return l.lexOperator(start)
}

func (l *Lexer) takeComments() []token.Comment {
	if len(l.pending) == 0 {
		return nil
	}
	c := l.pending
	l.pending = nil
	return c
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		c := l.cur()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.at(1) == '/':
			start := l.pos
			sameLine := l.lastNonWSWasSameLine(start)
			for !l.eof() && l.cur() != '\n' {
				l.pos++
			}
			l.pending = append(l.pending, token.Comment{
				Text: l.src[start:l.pos], Span: token.Span{Start: start, End: l.pos}, SameLine: sameLine,
			})
		case c == '/' && l.at(1) == '*':
			start := l.pos
			sameLine := l.lastNonWSWasSameLine(start)
			l.pos += 2
			for !l.eof() && !(l.cur() == '*' && l.at(1) == '/') {
				l.pos++
			}
			if !l.eof() {
				l.pos += 2
			}
			l.pending = append(l.pending, token.Comment{
				Text: l.src[start:l.pos], Span: token.Span{Start: start, End: l.pos}, Block: true, SameLine: sameLine,
			})
		default:
			return
		}
	}
}

// lastNonWSWasSameLine reports whether the character immediately preceding
// pos (ignoring spaces/tabs, not newlines) is non-whitespace on the same
// line, i.e. whether this comment is a trailing same-line comment.
func (l *Lexer) lastNonWSWasSameLine(pos int) bool {
	i := pos - 1
	for i >= 0 && (l.src[i] == ' ' || l.src[i] == '\t') {
		i--
	}
	return i >= 0 && l.src[i] != '\n'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }

func (l *Lexer) lexIdentOrKeyword(start int) token.Token {
	for !l.eof() && isIdentCont(l.cur()) {
		l.pos++
	}
	text := l.src[start:l.pos]
	leading := l.takeComments()
	if kw, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kw, Text: text, Span: token.Span{Start: start, End: l.pos}, Leading: leading}
	}
	return token.Token{Kind: token.Ident, Text: text, Span: token.Span{Start: start, End: l.pos}, Leading: leading}
}

var numericSuffixes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true,
}

func (l *Lexer) lexNumber(start int) (token.Token, error) {
	base := 10
	if l.cur() == '0' && (l.at(1) == 'x' || l.at(1) == 'X') {
		base = 16
		l.pos += 2
	} else if l.cur() == '0' && (l.at(1) == 'b' || l.at(1) == 'B') {
		base = 2
		l.pos += 2
	} else if l.cur() == '0' && (l.at(1) == 'o' || l.at(1) == 'O') {
		base = 8
		l.pos += 2
	}
	digitsStart := l.pos
	for !l.eof() && (isDigitForBase(l.cur(), base) || l.cur() == '_') {
		l.pos++
	}
	if l.pos == digitsStart && base != 10 {
		return token.Token{}, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: "malformed numeric literal", Span: token.Span{Start: start, End: l.pos}}
	}

	isFloat := false
	if base == 10 && l.cur() == '.' && isDigit(l.at(1)) {
		isFloat = true
		l.pos++ // consume '.'
		for !l.eof() && (isDigit(l.cur()) || l.cur() == '_') {
			l.pos++
		}
	}
	if base == 10 && (l.cur() == 'e' || l.cur() == 'E') {
		save := l.pos
		p := l.pos + 1
		if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
			p++
		}
		if p < len(l.src) && isDigit(l.src[p]) {
			isFloat = true
			l.pos = p
			for !l.eof() && isDigit(l.cur()) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}

	numEnd := l.pos
	suffix := ""
	if isIdentStart(l.cur()) {
		sufStart := l.pos
		for !l.eof() && isIdentCont(l.cur()) {
			l.pos++
		}
		suffix = l.src[sufStart:l.pos]
		if !numericSuffixes[suffix] {
			return token.Token{}, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: fmt.Sprintf("invalid numeric literal suffix %q", suffix), Span: token.Span{Start: sufStart, End: l.pos}}
		}
		if strings.HasPrefix(suffix, "f") {
			isFloat = true
		}
	}

	kind := token.Int
	if isFloat {
		kind = token.Float
	}
	leading := l.takeComments()
	return token.Token{Kind: kind, Text: l.src[start:numEnd], Suffix: suffix, Span: token.Span{Start: start, End: l.pos}, Leading: leading}, nil
}

func isDigitForBase(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return isDigit(c)
	}
}

// lexQuoted scans a '...' or "..." literal, resolving the single/double
// quote equivalence rule: a single-quoted body whose
// decoded content is exactly one rune is a Char; any other single- or
// double-quoted body is a String.
func (l *Lexer) lexQuoted(start int, quote byte) (token.Token, error) {
	l.pos++ // opening quote
	var decoded strings.Builder
	for {
		if l.eof() {
			return token.Token{}, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: "unterminated string or char literal", Span: token.Span{Start: start, End: l.pos}}
		}
		c := l.cur()
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' {
			r, err := l.decodeEscape()
			if err != nil {
				return token.Token{}, err
			}
			decoded.WriteRune(r)
			continue
		}
		if c == '\n' {
			return token.Token{}, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: "unterminated string or char literal", Span: token.Span{Start: start, End: l.pos}}
		}
		decoded.WriteByte(c)
		l.pos++
	}
	leading := l.takeComments()
	text := decoded.String()
	kind := token.String
	if quote == '\'' && runeCount(text) == 1 {
		kind = token.Char
	}
	return token.Token{Kind: kind, Text: text, Span: token.Span{Start: start, End: l.pos}, Leading: leading}, nil
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func (l *Lexer) decodeEscape() (rune, error) {
	escStart := l.pos
	l.pos++ // backslash
	if l.eof() {
		return 0, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: "invalid escape sequence", Span: token.Span{Start: escStart, End: l.pos}}
	}
	c := l.cur()
	l.pos++
	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '0':
		return 0, nil
	default:
		return 0, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: fmt.Sprintf("invalid escape sequence \\%c", c), Span: token.Span{Start: escStart, End: l.pos}}
	}
}

// lexFStringStart begins an f-string: consumes the `f` prefix and opening
// quote, then switches the lexer into text-scanning mode for the body.
func (l *Lexer) lexFStringStart(start int) (token.Token, error) {
	l.pos++ // 'f'
	quote := l.cur()
	l.pos++ // opening quote
	l.push(mode{kind: modeFStringText})
	l.modes[len(l.modes)-1].depth = int(quote) // stash which quote char closes this f-string
	leading := l.takeComments()
	return token.Token{Kind: token.FStringStart, Span: token.Span{Start: start, End: l.pos}, Leading: leading}, nil
}

func (l *Lexer) lexFStringText() (token.Token, error) {
	quote := byte(l.top().depth)
	start := l.pos
	var text strings.Builder
	for {
		if l.eof() {
			return token.Token{}, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: "unterminated f-string", Span: token.Span{Start: start, End: l.pos}}
		}
		c := l.cur()
		if c == quote {
			if text.Len() > 0 {
				return token.Token{Kind: token.FStringText, Text: text.String(), Span: token.Span{Start: start, End: l.pos}}, nil
			}
			l.pos++
			l.pop()
			return token.Token{Kind: token.FStringEnd, Span: token.Span{Start: start, End: l.pos}}, nil
		}
		if c == '{' && l.at(1) == '{' {
			text.WriteByte('{')
			l.pos += 2
			continue
		}
		if c == '}' && l.at(1) == '}' {
			text.WriteByte('}')
			l.pos += 2
			continue
		}
		if c == '{' {
			if text.Len() > 0 {
				return token.Token{Kind: token.FStringText, Text: text.String(), Span: token.Span{Start: start, End: l.pos}}, nil
			}
			l.pos++
			l.push(mode{kind: modeFStringExpr, depth: 0})
			return token.Token{Kind: token.FStringExprStart, Span: token.Span{Start: l.pos - 1, End: l.pos}}, nil
		}
		if c == '\\' {
			r, err := l.decodeEscape()
			if err != nil {
				return token.Token{}, err
			}
			text.WriteRune(r)
			continue
		}
		text.WriteByte(c)
		l.pos++
	}
}

// lexOperator handles everything that is neither an identifier, a number,
// nor a quoted literal: punctuation and operators, using maximal munch.
func (l *Lexer) lexOperator(start int) (token.Token, error) {
	c := l.cur()

	// Inside an f-string expression frame we track brace depth ourselves so
	// we know when a `}` closes the embedded expression rather than a
	// nested block/object literal within it.
	if l.top().kind == modeFStringExpr {
		if c == '{' {
			l.top().depth++
		}
		if c == '}' {
			if l.top().depth == 0 {
				l.pos++
				l.pop()
				leading := l.takeComments()
				return token.Token{Kind: token.FStringExprEnd, Span: token.Span{Start: start, End: l.pos}, Leading: leading}, nil
			}
			l.top().depth--
		}
	}

	three := l.peekN(3)
	two := l.peekN(2)

	switch three {
	case "..=":
		l.pos += 3
		return l.finish(token.DotDotEq, start)
	case "...":
		l.pos += 3
		return l.finish(token.DotDotDot, start)
	case "<<=":
		l.pos += 3
		return l.finish(token.ShlEq, start)
	case ">>=":
		l.pos += 3
		return l.finish(token.ShrEq, start)
	}

	switch two {
	case "::":
		l.pos += 2
		return l.finish(token.ColonColon, start)
	case "->":
		l.pos += 2
		return l.finish(token.Arrow, start)
	case "=>":
		l.pos += 2
		return l.finish(token.FatArrow, start)
	case "==":
		l.pos += 2
		return l.finish(token.EqEq, start)
	case "!=":
		l.pos += 2
		return l.finish(token.NotEq, start)
	case "<=":
		l.pos += 2
		return l.finish(token.LtEq, start)
	case ">=":
		l.pos += 2
		return l.finish(token.GtEq, start)
	case "&&":
		l.pos += 2
		return l.finish(token.AmpAmp, start)
	case "||":
		l.pos += 2
		return l.finish(token.PipePipe, start)
	case "..":
		l.pos += 2
		return l.finish(token.DotDot, start)
	case "+=":
		l.pos += 2
		return l.finish(token.PlusEq, start)
	case "-=":
		l.pos += 2
		return l.finish(token.MinusEq, start)
	case "*=":
		l.pos += 2
		return l.finish(token.StarEq, start)
	case "/=":
		l.pos += 2
		return l.finish(token.SlashEq, start)
	case "%=":
		l.pos += 2
		return l.finish(token.PercentEq, start)
	case "&=":
		l.pos += 2
		return l.finish(token.AmpEq, start)
	case "|=":
		l.pos += 2
		return l.finish(token.PipeEq, start)
	case "^=":
		l.pos += 2
		return l.finish(token.CaretEq, start)
	case "<<":
		l.pos += 2
		return l.finish(token.Shl, start)
	case ">>":
		l.pos += 2
		return l.finish(token.Shr, start)
	}

	single := map[byte]token.Kind{
		'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
		'[': token.LBracket, ']': token.RBracket, ',': token.Comma, ';': token.Semi,
		':': token.Colon, '.': token.Dot, '?': token.Question, '!': token.Bang,
		'@': token.At, '&': token.Amp, '|': token.Pipe, '=': token.Assign,
		'<': token.Lt, '>': token.Gt, '+': token.Plus, '-': token.Minus,
		'*': token.Star, '/': token.Slash, '%': token.Percent, '^': token.Caret,
	}
	if k, ok := single[c]; ok {
		l.pos++
		return l.finish(k, start)
	}
	return token.Token{}, &ruchyerr.Error{Kind: ruchyerr.Lex, Message: fmt.Sprintf("unexpected character %q", string(c)), Span: token.Span{Start: start, End: start + 1}}
}

func (l *Lexer) finish(k token.Kind, start int) (token.Token, error) {
	leading := l.takeComments()
	return token.Token{Kind: k, Text: l.src[start:l.pos], Span: token.Span{Start: start, End: l.pos}, Leading: leading}, nil
}

func (l *Lexer) peekN(n int) string {
	end := l.pos + n
	if end > len(l.src) {
		end = len(l.src)
	}
	return l.src[l.pos:end]
}
