// Package parser implements Ruchy's hand-rolled Pratt precedence-climbing
// parser: source text (via pkg/lexer) in, an *ast.File out.
//
// A grammar-reflection library cannot express this language's
// context-sensitive disambiguation (turbofish vs. comparison,
// block-vs-object-vs-lambda, a guard clause that must stop at `=>`)
// without escaping into handwritten callbacks for most productions, so
// the parser is written by hand: one function per production, each
// taking and returning *ast.Expr/*ast.Type/*ast.Pattern directly.
package parser

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/ruchyerr"
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/lexer"
	"github.com/ruchy-lang/ruchy/pkg/source"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

// Parser turns one source.Buffer into an ast.File, accumulating diagnostics
// as it goes rather than stopping at the first error where a safe resync
// point can be found.
type Parser struct {
	s    *lexer.Stream
	file string
	cur  token.Token
	prev token.Token
	errs ruchyerr.List

	// noStruct suppresses the `Name { ... }` struct-literal reading of a
	// bare brace immediately after a path expression while parsing an
	// if/while/for/match head, the same ambiguity Rust itself resolves by
	// banning unparenthesized struct literals there.
	noStruct bool
}

// New creates a Parser over buf.
func New(buf *source.Buffer) *Parser {
	p := &Parser{s: lexer.NewStream(lexer.New(buf)), file: buf.Name}
	p.cur = p.s.Next()
	return p
}

// Parse lexes and parses buf in one call, returning the accumulated errors
// (if any) alongside whatever partial tree could be recovered.
func Parse(buf *source.Buffer) (*ast.File, error) {
	p := New(buf)
	f := p.ParseFile()
	if len(p.errs) > 0 {
		return f, p.errs
	}
	if err := p.s.Err(); err != nil {
		return f, err
	}
	return f, nil
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

// atKeywordIdent reports whether cur is a plain identifier spelled text;
// used for soft/contextual keywords ("from", "ref") that are not reserved
// words and so must stay lexed as Ident to avoid colliding with variable
// names elsewhere in the grammar.
func (p *Parser) atKeywordIdent(text string) bool {
	return p.cur.Kind == token.Ident && p.cur.Text == text
}

// peek returns the token n positions ahead of cur (peek(1) is the token
// immediately following cur).
func (p *Parser) peek(n int) token.Token {
	if n <= 0 {
		return p.cur
	}
	return p.s.Peek(n - 1)
}

func (p *Parser) advance() token.Token {
	prev := p.cur
	p.prev = prev
	p.cur = p.s.Next()
	return prev
}

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.errf(p.cur.Span, "expected %s, found %s", what, describe(p.cur))
	}
	return p.advance(), nil
}

func describe(t token.Token) string {
	if t.Kind == token.Ident || t.Kind == token.Int || t.Kind == token.Float || t.Kind == token.String {
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// prevEnd returns a zero-width span at the end of the last consumed token,
// used to close out spans whose final sub-node doesn't carry its own.
func (p *Parser) prevEnd() token.Span {
	return token.Span{Start: p.prev.Span.End, End: p.prev.Span.End}
}

// noSpaceBeforeCur reports whether cur immediately follows the previously
// consumed token with no intervening whitespace or comment. This resolves
// the postfix-try-operator vs. ternary `?` ambiguity: `expr?` with
// no gap is always the try operator, so greedy postfix consumption of `?`
// is only allowed when this holds; a `?` preceded by a space is left for
// the ternary parser one level up.
func (p *Parser) noSpaceBeforeCur() bool {
	return len(p.cur.Leading) == 0 && p.cur.Span.Start == p.prev.Span.End
}

func (p *Parser) errf(span token.Span, format string, args ...any) *ruchyerr.Error {
	return ruchyerr.New(ruchyerr.Parse, span, format, args...)
}

func (p *Parser) recordErr(err error) {
	if e, ok := err.(*ruchyerr.Error); ok {
		e.File = p.file
		p.errs = append(p.errs, e)
		return
	}
	p.errs = append(p.errs, ruchyerr.New(ruchyerr.Internal, p.cur.Span, "%v", err))
}

// isSyncPoint reports whether cur plausibly starts a new top-level item; on
// a parse error we skip forward to the next one so a single mistake
// doesn't swallow the rest of the file's diagnostics.
func (p *Parser) isSyncPoint() bool {
	switch p.cur.Kind {
	case token.EOF, token.Fun, token.Let, token.Struct, token.Class, token.Enum,
		token.Trait, token.Impl, token.Use, token.Import, token.Pub, token.Async, token.Semi:
		return true
	}
	return false
}

func (p *Parser) syncToTopLevel() {
	p.advance()
	for !p.isSyncPoint() {
		p.advance()
	}
	p.accept(token.Semi)
}

// ParseFile parses the entire buffer as a sequence of top-level
// expressions in source order.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{Name: p.file}
	for {
		for p.accept(token.Semi) {
		}
		if p.at(token.EOF) {
			break
		}
		e, err := p.parseTopLevel()
		if err != nil {
			p.recordErr(err)
			p.syncToTopLevel()
			continue
		}
		f.Exprs = append(f.Exprs, e)
	}
	return f
}

func (p *Parser) parseAttributes() ([]ast.Attribute, error) {
	var attrs []ast.Attribute
	for p.at(token.At) {
		start := p.cur.Span
		p.advance()
		name, err := p.expect(token.Ident, "attribute name")
		if err != nil {
			return nil, err
		}
		var args []string
		if p.accept(token.LParen) {
			for !p.at(token.RParen) {
				tok := p.advance()
				args = append(args, tok.Text)
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RParen, "')' to close attribute arguments"); err != nil {
				return nil, err
			}
		}
		attrs = append(attrs, ast.Attribute{Name: name.Text, Args: args, Span: token.Join(start, p.prevEnd())})
	}
	return attrs, nil
}

func (p *Parser) parseVisibility() ast.Visibility {
	if !p.at(token.Pub) {
		return ast.VisNone
	}
	p.advance()
	if p.accept(token.LParen) {
		defer func() { p.accept(token.RParen) }()
		if p.accept(token.Crate) {
			return ast.VisPubCrate
		}
		if p.accept(token.Super) {
			return ast.VisPubSuper
		}
	}
	return ast.VisPub
}

// parseTopLevel dispatches a single top-level item: an import/use
// statement, a declaration (struct/class/enum/trait/impl/function), or a
// bare expression/statement.
func (p *Parser) parseTopLevel() (*ast.Expr, error) {
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}

	switch p.cur.Kind {
	case token.Use:
		return p.parseUse()
	case token.Import:
		return p.parseImport()
	}

	vis := p.parseVisibility()
	isAsync := false
	if p.at(token.Async) {
		isAsync = true
		p.advance()
	}

	switch p.cur.Kind {
	case token.Fun:
		return p.parseFunction(attrs, vis, isAsync)
	case token.Struct:
		return p.parseStruct(vis)
	case token.Class:
		return p.parseClass(vis)
	case token.Enum:
		return p.parseEnum(vis)
	case token.Trait:
		return p.parseTrait()
	case token.Impl:
		return p.parseImpl()
	}

	if vis != ast.VisNone || isAsync {
		return nil, p.errf(p.cur.Span, "expected a declaration after modifier, found %s", describe(p.cur))
	}

	e, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	e.Attributes = attrs
	return e, nil
}

// parseExprStatement parses one expression followed by its optional
// trailing `;`. A trailing semicolon at top level or inside a block simply
// terminates the statement; Ruchy (like Rust) treats the final
// semicolon-less expression of a block as its value.
func (p *Parser) parseExprStatement() (*ast.Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.accept(token.Semi)
	return e, nil
}
