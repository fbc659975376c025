package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

// parsePattern parses a single match-arm, let-binding, or for-loop pattern,
// including `|`-separated or-patterns and trailing `..N` range patterns.
func (p *Parser) parsePattern() (*ast.Pattern, error) {
	first, err := p.parsePatternPrimary()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Pipe) {
		return first, nil
	}
	alts := []*ast.Pattern{first}
	for p.accept(token.Pipe) {
		next, err := p.parsePatternPrimary()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	return &ast.Pattern{Kind: &ast.OrPat{Alternatives: alts}, Span: token.Join(first.Span, alts[len(alts)-1].Span)}, nil
}

func (p *Parser) parsePatternPrimary() (*ast.Pattern, error) {
	start := p.cur.Span

	if p.cur.Kind == token.Ident && p.cur.Text == "ref" {
		p.advance()
		name, err := p.expect(token.Ident, "binding name after 'ref'")
		if err != nil {
			return nil, err
		}
		return p.maybeRangePattern(&ast.Pattern{Kind: &ast.IdentifierPat{Name: name.Text, Ref: true}, Span: token.Join(start, name.Span)})
	}

	switch p.cur.Kind {
	case token.Ident:
		if p.cur.Text == "_" {
			p.advance()
			return &ast.Pattern{Kind: &ast.WildcardPat{}, Span: start}, nil
		}
		return p.parsePathOrBindingPattern(start, false)

	case token.Amp:
		p.advance()
		inner, err := p.parsePatternPrimary()
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{Kind: &ast.RefPat{Inner: inner}, Span: token.Join(start, inner.Span)}, nil
	}

	switch p.cur.Kind {
	case token.LParen:
		p.advance()
		var elems []*ast.Pattern
		for !p.at(token.RParen) {
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			elems = append(elems, pat)
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RParen, "')' to close tuple pattern")
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{Kind: &ast.TuplePat{Elements: elems}, Span: token.Join(start, end.Span)}, nil

	case token.LBracket:
		p.advance()
		var elems []*ast.Pattern
		var rest *string
		for !p.at(token.RBracket) {
			if p.at(token.DotDotDot) || p.at(token.DotDot) {
				p.advance()
				if p.at(token.Ident) {
					name := p.advance().Text
					rest = &name
				} else {
					empty := ""
					rest = &empty
				}
				break
			}
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			elems = append(elems, pat)
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RBracket, "']' to close list pattern")
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{Kind: &ast.ListPat{Elements: elems, Rest: rest}, Span: token.Join(start, end.Span)}, nil

	case token.Minus, token.Int, token.Float, token.String, token.Char, token.True, token.False:
		lit, err := p.parseLiteralForPattern()
		if err != nil {
			return nil, err
		}
		return p.maybeRangePattern(&ast.Pattern{Kind: &ast.LiteralPat{Literal: lit}, Span: lit.Span})

	default:
		return nil, p.errf(start, "expected a pattern, found %s", p.cur.Kind)
	}
}

// parseLiteralForPattern parses the literal forms allowed in a pattern,
// including a leading unary minus on numeric literals.
func (p *Parser) parseLiteralForPattern() (*ast.Expr, error) {
	return p.parseUnary()
}

func (p *Parser) maybeRangePattern(lo *ast.Pattern) (*ast.Pattern, error) {
	if !p.at(token.DotDot) && !p.at(token.DotDotEq) {
		return lo, nil
	}
	inclusive := p.cur.Kind == token.DotDotEq
	p.advance()
	hi, err := p.parsePatternPrimary()
	if err != nil {
		return nil, err
	}
	var loExpr, hiExpr *ast.Expr
	if litPat, ok := lo.Kind.(*ast.LiteralPat); ok {
		loExpr = litPat.Literal
	}
	if litPat, ok := hi.Kind.(*ast.LiteralPat); ok {
		hiExpr = litPat.Literal
	}
	return &ast.Pattern{Kind: &ast.RangePat{Start: loExpr, End: hiExpr, Inclusive: inclusive}, Span: token.Join(lo.Span, hi.Span)}, nil
}

// parsePathOrBindingPattern handles the identifier-led pattern forms: a
// plain binding, a struct pattern `Path { field, .. }`, an enum
// pattern `Path(inner...)` (including the Some/Ok/None/Err shorthands), or a
// bare constant path.
func (p *Parser) parsePathOrBindingPattern(start token.Span, _ bool) (*ast.Pattern, error) {
	var path []string
	nameTok := p.advance()
	path = append(path, nameTok.Text)
	for p.accept(token.ColonColon) {
		seg, err := p.expect(token.Ident, "identifier after '::' in pattern")
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Text)
	}
	full := joinPath(path)

	switch {
	case p.at(token.LBrace):
		p.advance()
		var fields []ast.FieldPat
		rest := false
		for !p.at(token.RBrace) {
			if p.at(token.DotDot) {
				p.advance()
				rest = true
				break
			}
			fname, err := p.expect(token.Ident, "field name in struct pattern")
			if err != nil {
				return nil, err
			}
			var sub *ast.Pattern
			if p.accept(token.Colon) {
				sub, err = p.parsePattern()
				if err != nil {
					return nil, err
				}
			} else {
				sub = &ast.Pattern{Kind: &ast.IdentifierPat{Name: fname.Text}, Span: fname.Span}
			}
			fields = append(fields, ast.FieldPat{Name: fname.Text, Pattern: sub})
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RBrace, "'}' to close struct pattern")
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{Kind: &ast.StructPat{Path: full, Fields: fields, Rest: rest}, Span: token.Join(start, end.Span)}, nil

	case p.at(token.LParen):
		p.advance()
		var inner []*ast.Pattern
		for !p.at(token.RParen) {
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			inner = append(inner, pat)
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RParen, "')' to close enum/tuple-struct pattern")
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{Kind: &ast.EnumPat{Path: full, Inner: inner}, Span: token.Join(start, end.Span)}, nil

	case len(path) == 1 && !isUpperFirst(path[0]):
		return p.maybeRangePattern(&ast.Pattern{Kind: &ast.IdentifierPat{Name: full}, Span: token.Join(start, nameTok.Span)})

	default:
		return &ast.Pattern{Kind: &ast.ConstPat{Path: full}, Span: token.Join(start, nameTok.Span)}, nil
	}
}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= 'A' && c <= 'Z'
}

// parseForPattern parses the binding of a for loop or comprehension
// clause, where `k, v` without parentheses is an implicit tuple pattern.
func (p *Parser) parseForPattern() (*ast.Pattern, error) {
	first, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Comma) {
		return first, nil
	}
	elems := []*ast.Pattern{first}
	for p.accept(token.Comma) {
		next, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	return &ast.Pattern{Kind: &ast.TuplePat{Elements: elems}, Span: token.Join(first.Span, elems[len(elems)-1].Span)}, nil
}
