package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

// parseType parses a single type annotation. Called after a `:` or `->`.
func (p *Parser) parseType() (*ast.Type, error) {
	start := p.cur.Span

	switch p.cur.Kind {
	case token.Amp:
		p.advance()
		mutable := p.accept(token.Mut)
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.Type{Kind: &ast.RefType{Elem: elem, Mutable: mutable}, Span: token.Join(start, elem.Span)}, nil

	case token.LParen:
		p.advance()
		if p.accept(token.RParen) {
			return &ast.Type{Kind: &ast.TupleType{}, Span: token.Join(start, p.prevEnd())}, nil
		}
		var elems []*ast.Type
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
			if !p.accept(token.Comma) {
				break
			}
			if p.at(token.RParen) {
				break
			}
		}
		end, err := p.expect(token.RParen, "')' to close tuple type")
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return &ast.Type{Kind: &ast.TupleType{Elements: elems}, Span: token.Join(start, end.Span)}, nil

	case token.LBracket:
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.accept(token.Semi) {
			size, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBracket, "']' to close array type")
			if err != nil {
				return nil, err
			}
			return &ast.Type{Kind: &ast.ArrayType{Elem: elem, Size: size}, Span: token.Join(start, end.Span)}, nil
		}
		end, err := p.expect(token.RBracket, "']' to close slice type")
		if err != nil {
			return nil, err
		}
		return &ast.Type{Kind: &ast.SliceType{Elem: elem}, Span: token.Join(start, end.Span)}, nil

	case token.Fun:
		p.advance()
		if _, err := p.expect(token.LParen, "'(' in function type"); err != nil {
			return nil, err
		}
		var params []*ast.Type
		for !p.at(token.RParen) {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t)
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RParen, "')' to close function type params")
		if err != nil {
			return nil, err
		}
		var ret *ast.Type
		if p.accept(token.Arrow) {
			ret, err = p.parseType()
			if err != nil {
				return nil, err
			}
			end = token.Token{Span: ret.Span}
		}
		return &ast.Type{Kind: &ast.FuncType{Params: params, Return: ret}, Span: token.Join(start, end.Span)}, nil

	case token.SelfUpper:
		p.advance()
		return &ast.Type{Kind: &ast.SelfTypeNode{}, Span: start}, nil

	case token.Ident, token.SelfLower, token.Crate, token.Super:
		return p.parseNamedType(start)

	default:
		return nil, p.errf(start, "expected a type, found %s", p.cur.Kind)
	}
}

// parseNamedType parses a possibly-qualified, possibly-generic type path,
// e.g. "std::collections::HashMap<K, V>" or a bare single-letter generic
// parameter placeholder "_".
func (p *Parser) parseNamedType(start token.Span) (*ast.Type, error) {
	var path []string
	for {
		tok := p.cur
		if tok.Kind != token.Ident && tok.Kind != token.SelfLower && tok.Kind != token.Crate && tok.Kind != token.Super {
			return nil, p.errf(tok.Span, "expected identifier in type path")
		}
		p.advance()
		path = append(path, tok.Text)
		if !p.accept(token.ColonColon) {
			break
		}
	}
	name := joinPath(path)
	end := p.prevEnd()

	if name == "_" {
		return &ast.Type{Kind: &ast.PlaceholderType{}, Span: token.Join(start, end)}, nil
	}

	var generics []*ast.Type
	if p.at(token.Lt) {
		p.advance()
		for !p.at(token.Gt) {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			generics = append(generics, t)
			if !p.accept(token.Comma) {
				break
			}
		}
		if p.at(token.Shr) {
			// `>>` closes this list and the enclosing one: the first `>`
			// is consumed here, the second stays as the current token.
			first := p.cur
			first.Kind, first.Text = token.Gt, ">"
			first.Span.End = first.Span.Start + 1
			p.cur.Kind, p.cur.Text = token.Gt, ">"
			p.cur.Span.Start = first.Span.End
			p.prev = first
			end = first.Span
		} else {
			endTok, err := p.expect(token.Gt, "'>' to close generic argument list")
			if err != nil {
				return nil, err
			}
			end = endTok.Span
		}
	}

	return &ast.Type{Kind: &ast.NamedType{Path: name, Generics: generics}, Span: token.Join(start, end)}, nil
}

func joinPath(parts []string) string {
	out := parts[0]
	for _, s := range parts[1:] {
		out += "::" + s
	}
	return out
}

// parseGenericParams parses `<T, U: Bound>` generic parameter lists on
// functions, structs, classes, traits, and impls, returning the bare
// parameter names (bounds are validated but not retained beyond the
// function body's type-checking needs, which this local inferencer skips).
func (p *Parser) parseGenericParams() ([]string, error) {
	if !p.at(token.Lt) {
		return nil, nil
	}
	p.advance()
	var names []string
	for !p.at(token.Gt) {
		name, err := p.expect(token.Ident, "generic parameter name")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Text)
		if p.accept(token.Colon) {
			for {
				if _, err := p.expect(token.Ident, "trait bound"); err != nil {
					return nil, err
				}
				if !p.accept(token.Plus) {
					break
				}
			}
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.Gt, "'>' to close generic parameter list"); err != nil {
		return nil, err
	}
	return names, nil
}
