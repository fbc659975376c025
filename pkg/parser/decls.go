package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/importurl"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

func (p *Parser) parseImportPath() (string, error) {
	tok, err := p.expect(token.String, "quoted import path")
	if err != nil {
		return "", err
	}
	if err := importurl.Validate(tok.Text); err != nil {
		return "", p.errf(tok.Span, "%v", err)
	}
	return tok.Text, nil
}

// parseUse parses `use path::to::{a, b as c}` and `use path::*`, Ruchy's
// local-module import form (distinct from `import "url"`).
func (p *Parser) parseUse() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()

	var segs []string
	for {
		tok, err := p.expect(token.Ident, "path segment")
		if err != nil {
			return nil, err
		}
		segs = append(segs, tok.Text)
		if !p.accept(token.ColonColon) {
			break
		}
		if p.accept(token.Star) {
			p.accept(token.Semi)
			return &ast.Expr{Kind: &ast.UseStatement{Path: joinPath(segs), Wildcard: true}, Span: token.Join(start, p.prevEnd())}, nil
		}
		if p.at(token.LBrace) {
			p.advance()
			var items []ast.ImportItem
			for !p.at(token.RBrace) {
				name, err := p.expect(token.Ident, "import item")
				if err != nil {
					return nil, err
				}
				alias := ""
				if p.accept(token.As) {
					a, err := p.expect(token.Ident, "alias after 'as'")
					if err != nil {
						return nil, err
					}
					alias = a.Text
				}
				items = append(items, ast.ImportItem{Name: name.Text, Alias: alias})
				if !p.accept(token.Comma) {
					break
				}
			}
			end, err := p.expect(token.RBrace, "'}' to close use list")
			if err != nil {
				return nil, err
			}
			p.accept(token.Semi)
			return &ast.Expr{Kind: &ast.UseStatement{Path: joinPath(segs), Items: items}, Span: token.Join(start, end.Span)}, nil
		}
	}
	alias := ""
	if p.accept(token.As) {
		a, err := p.expect(token.Ident, "alias after 'as'")
		if err != nil {
			return nil, err
		}
		alias = a.Text
	}
	p.accept(token.Semi)
	return &ast.Expr{Kind: &ast.UseStatement{Path: joinPath(segs), Alias: alias}, Span: token.Join(start, p.prevEnd())}, nil
}

// parseImport parses `import "https://host/path.ruchy"` and its `as`/`{}`
// forms, validating the URL at parse time.
func (p *Parser) parseImport() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()

	if p.at(token.LBrace) {
		p.advance()
		var items []ast.ImportItem
		for !p.at(token.RBrace) {
			name, err := p.expect(token.Ident, "import item")
			if err != nil {
				return nil, err
			}
			alias := ""
			if p.accept(token.As) {
				a, err := p.expect(token.Ident, "alias after 'as'")
				if err != nil {
					return nil, err
				}
				alias = a.Text
			}
			items = append(items, ast.ImportItem{Name: name.Text, Alias: alias})
			if !p.accept(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.RBrace, "'}' to close import list"); err != nil {
			return nil, err
		}
		if !p.atKeywordIdent("from") {
			return nil, p.errf(p.cur.Span, "expected 'from' before import URL, found %s", describe(p.cur))
		}
		p.advance()
		path, err := p.parseImportPath()
		if err != nil {
			return nil, err
		}
		p.accept(token.Semi)
		return &ast.Expr{Kind: &ast.Import{Path: path, Items: items}, Span: token.Join(start, p.prevEnd())}, nil
	}

	path, err := p.parseImportPath()
	if err != nil {
		return nil, err
	}
	alias := ""
	if p.accept(token.As) {
		a, err := p.expect(token.Ident, "alias after 'as'")
		if err != nil {
			return nil, err
		}
		alias = a.Text
	}
	p.accept(token.Semi)
	return &ast.Expr{Kind: &ast.Import{Path: path, Alias: alias}, Span: token.Join(start, p.prevEnd())}, nil
}

func (p *Parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.LParen, "'(' to open parameter list"); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.at(token.RParen) {
		start := p.cur.Span
		if p.at(token.SelfLower) || (p.at(token.Amp) && (p.peek(1).Kind == token.SelfLower || (p.peek(1).Kind == token.Mut && p.peek(2).Kind == token.SelfLower))) {
			// `self`, `&self`, `&mut self` receivers are handled by the
			// declaration parsers that call parseMethodParams instead; a
			// bare function never sees one, but tolerate it defensively.
			for !p.at(token.Comma) && !p.at(token.RParen) {
				p.advance()
			}
			params = append(params, &ast.Param{Name: "self", Span: start})
		} else {
			name, err := p.expect(token.Ident, "parameter name")
			if err != nil {
				return nil, err
			}
			var typ *ast.Type
			if p.accept(token.Colon) {
				typ, err = p.parseType()
				if err != nil {
					return nil, err
				}
			}
			params = append(params, &ast.Param{Name: name.Text, TypeAnnotation: typ, Span: token.Join(start, p.prevEnd())})
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, "')' to close parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseMethodParams is like parseParams but recognizes a leading
// self/&self/&mut self receiver and reports it via SelfMode separately from
// the ordinary parameter list.
func (p *Parser) parseMethodParams() (ast.SelfMode, []*ast.Param, error) {
	if _, err := p.expect(token.LParen, "'(' to open parameter list"); err != nil {
		return ast.SelfNone, nil, err
	}
	mode := ast.SelfNone
	if p.at(token.SelfLower) {
		p.advance()
		mode = ast.SelfValue
		p.accept(token.Comma)
	} else if p.at(token.Amp) && p.peek(1).Kind == token.SelfLower {
		p.advance()
		p.advance()
		mode = ast.SelfRef
		p.accept(token.Comma)
	} else if p.at(token.Amp) && p.peek(1).Kind == token.Mut && p.peek(2).Kind == token.SelfLower {
		p.advance()
		p.advance()
		p.advance()
		mode = ast.SelfRefMut
		p.accept(token.Comma)
	}
	var params []*ast.Param
	for !p.at(token.RParen) {
		start := p.cur.Span
		name, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			return ast.SelfNone, nil, err
		}
		var typ *ast.Type
		if p.accept(token.Colon) {
			typ, err = p.parseType()
			if err != nil {
				return ast.SelfNone, nil, err
			}
		}
		params = append(params, &ast.Param{Name: name.Text, TypeAnnotation: typ, Span: token.Join(start, p.prevEnd())})
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, "')' to close parameter list"); err != nil {
		return ast.SelfNone, nil, err
	}
	return mode, params, nil
}

func (p *Parser) parseFunction(attrs []ast.Attribute, vis ast.Visibility, isAsync bool) (*ast.Expr, error) {
	start := p.cur.Span
	p.advance() // 'fun'/'fn'
	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	var ret *ast.Type
	if p.accept(token.Arrow) {
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind: &ast.Function{
			Name: name.Text, IsPub: vis != ast.VisNone, Visibility: vis, IsAsync: isAsync,
			Generics: generics, Params: params, ReturnType: ret, Body: body, Attributes: attrs,
		},
		Span: token.Join(start, body.Span),
	}, nil
}

func (p *Parser) parseFields() ([]*ast.Field, error) {
	if _, err := p.expect(token.LBrace, "'{' to open field list"); err != nil {
		return nil, err
	}
	var fields []*ast.Field
	for !p.at(token.RBrace) {
		start := p.cur.Span
		fvis := p.parseVisibility()
		name, err := p.expect(token.Ident, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "':' before field type"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, &ast.Field{Visibility: fvis, Name: name.Text, Type: typ, Span: token.Join(start, typ.Span)})
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RBrace, "'}' to close field list"); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *Parser) parseStruct(vis ast.Visibility) (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	name, err := p.expect(token.Ident, "struct name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFields()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind: &ast.StructDecl{Name: name.Text, Visibility: vis, Generics: generics, Fields: fields},
		Span: token.Join(start, p.prevEnd()),
	}, nil
}

func (p *Parser) parseClassMember() (*ast.Method, []*ast.Field, bool, error) {
	start := p.cur.Span
	mvis := p.parseVisibility()
	isStatic := p.accept(token.Static)
	isOverride := p.accept(token.Override)
	if p.at(token.Fun) {
		p.advance()
		nameTok, err := p.expect(token.Ident, "method name")
		if err != nil {
			return nil, nil, false, err
		}
		isCtor := nameTok.Text == "new" || nameTok.Text == "init"
		generics, err := p.parseGenericParams()
		if err != nil {
			return nil, nil, false, err
		}
		selfMode, params, err := p.parseMethodParams()
		if err != nil {
			return nil, nil, false, err
		}
		var ret *ast.Type
		if p.accept(token.Arrow) {
			ret, err = p.parseType()
			if err != nil {
				return nil, nil, false, err
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, nil, false, err
		}
		return &ast.Method{
			Name: nameTok.Text, Visibility: mvis, IsStatic: isStatic, IsOverride: isOverride,
			SelfMode: selfMode, Generics: generics, Params: params, ReturnType: ret, Body: body,
		}, nil, isCtor, nil
	}

	name, err := p.expect(token.Ident, "field name")
	if err != nil {
		return nil, nil, false, err
	}
	if _, err := p.expect(token.Colon, "':' before field type"); err != nil {
		return nil, nil, false, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, nil, false, err
	}
	p.accept(token.Semi)
	return nil, []*ast.Field{{Visibility: mvis, Name: name.Text, Type: typ, Span: token.Join(start, typ.Span)}}, false, nil
}

func (p *Parser) parseClass(vis ast.Visibility) (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	name, err := p.expect(token.Ident, "class name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	super := ""
	if p.accept(token.Colon) {
		s, err := p.expect(token.Ident, "superclass name")
		if err != nil {
			return nil, err
		}
		super = s.Text
	}
	if _, err := p.expect(token.LBrace, "'{' to open class body"); err != nil {
		return nil, err
	}
	decl := &ast.ClassDecl{Name: name.Text, Visibility: vis, Superclass: super, Generics: generics}
	for !p.at(token.RBrace) {
		method, fields, isCtor, err := p.parseClassMember()
		if err != nil {
			return nil, err
		}
		switch {
		case method != nil && isCtor:
			decl.Constructors = append(decl.Constructors, method)
		case method != nil:
			decl.Methods = append(decl.Methods, method)
		default:
			decl.Fields = append(decl.Fields, fields...)
		}
	}
	end, err := p.expect(token.RBrace, "'}' to close class body")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: decl, Span: token.Join(start, end.Span)}, nil
}

func (p *Parser) parseEnum(vis ast.Visibility) (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	name, err := p.expect(token.Ident, "enum name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "'{' to open enum body"); err != nil {
		return nil, err
	}
	var variants []*ast.Variant
	for !p.at(token.RBrace) {
		vname, err := p.expect(token.Ident, "variant name")
		if err != nil {
			return nil, err
		}
		v := &ast.Variant{Name: vname.Text}
		switch {
		case p.at(token.LParen):
			p.advance()
			for !p.at(token.RParen) {
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				v.TupleTypes = append(v.TupleTypes, t)
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RParen, "')' to close tuple variant"); err != nil {
				return nil, err
			}
			v.Kind = ast.VariantTuple
		case p.at(token.LBrace):
			fields, err := p.parseFields()
			if err != nil {
				return nil, err
			}
			v.Fields = fields
			v.Kind = ast.VariantStruct
		default:
			v.Kind = ast.VariantUnit
		}
		variants = append(variants, v)
		if !p.accept(token.Comma) {
			break
		}
	}
	end, err := p.expect(token.RBrace, "'}' to close enum body")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind: &ast.EnumDecl{Name: name.Text, Visibility: vis, Generics: generics, Variants: variants},
		Span: token.Join(start, end.Span),
	}, nil
}

func (p *Parser) parseTraitMethod() (*ast.Method, error) {
	p.parseVisibility()
	if _, err := p.expect(token.Fun, "method signature"); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident, "method name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	selfMode, params, err := p.parseMethodParams()
	if err != nil {
		return nil, err
	}
	var ret *ast.Type
	if p.accept(token.Arrow) {
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var body *ast.Expr
	if p.at(token.LBrace) {
		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	} else {
		p.accept(token.Semi)
	}
	return &ast.Method{Name: name.Text, SelfMode: selfMode, Generics: generics, Params: params, ReturnType: ret, Body: body}, nil
}

func (p *Parser) parseTrait() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	name, err := p.expect(token.Ident, "trait name")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	var supers []string
	if p.accept(token.Colon) {
		for {
			s, err := p.expect(token.Ident, "supertrait name")
			if err != nil {
				return nil, err
			}
			supers = append(supers, s.Text)
			if !p.accept(token.Plus) {
				break
			}
		}
	}
	if _, err := p.expect(token.LBrace, "'{' to open trait body"); err != nil {
		return nil, err
	}
	decl := &ast.TraitDecl{Name: name.Text, Generics: generics, Supertraits: supers}
	for !p.at(token.RBrace) {
		if p.at(token.Ident) && p.cur.Text == "type" {
			p.advance()
			tname, err := p.expect(token.Ident, "associated type name")
			if err != nil {
				return nil, err
			}
			p.accept(token.Semi)
			decl.AssociatedTypes = append(decl.AssociatedTypes, ast.AssociatedType{Name: tname.Text})
			continue
		}
		m, err := p.parseTraitMethod()
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, m)
	}
	end, err := p.expect(token.RBrace, "'}' to close trait body")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: decl, Span: token.Join(start, end.Span)}, nil
}

func (p *Parser) parseImpl() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	first, err := p.expect(token.Ident, "type or trait name")
	if err != nil {
		return nil, err
	}
	traitName, typeName := "", first.Text
	if p.accept(token.For) {
		traitName = first.Text
		t, err := p.expect(token.Ident, "type name after 'for'")
		if err != nil {
			return nil, err
		}
		typeName = t.Text
	}
	if _, err := p.expect(token.LBrace, "'{' to open impl body"); err != nil {
		return nil, err
	}
	decl := &ast.ImplDecl{Trait: traitName, Type: typeName, Generics: generics}
	for !p.at(token.RBrace) {
		p.parseVisibility()
		if _, err := p.expect(token.Fun, "method definition"); err != nil {
			return nil, err
		}
		name, err := p.expect(token.Ident, "method name")
		if err != nil {
			return nil, err
		}
		mgenerics, err := p.parseGenericParams()
		if err != nil {
			return nil, err
		}
		selfMode, params, err := p.parseMethodParams()
		if err != nil {
			return nil, err
		}
		var ret *ast.Type
		if p.accept(token.Arrow) {
			ret, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, &ast.Method{
			Name: name.Text, SelfMode: selfMode, Generics: mgenerics, Params: params, ReturnType: ret, Body: body,
		})
	}
	end, err := p.expect(token.RBrace, "'}' to close impl body")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: decl, Span: token.Join(start, end.Span)}, nil
}
