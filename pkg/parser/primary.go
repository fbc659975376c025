package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

func (p *Parser) parsePrimary() (*ast.Expr, error) {
	start := p.cur.Span

	// A label precedes loop/while/for: `outer: loop { ... }`. Ruchy has no
	// dedicated lifetime-label token, so this is recognized as a plain
	// identifier immediately followed by `:` and one of the loop keywords.
	if p.at(token.Ident) && p.peek(1).Kind == token.Colon {
		switch p.peek(2).Kind {
		case token.Loop, token.While, token.For:
			name := p.advance().Text
			p.advance() // ':'
			e, err := p.parseLabeledLoop(&name)
			if err != nil {
				return nil, err
			}
			e.Span.Start = start.Start
			return e, nil
		}
	}

	switch p.cur.Kind {
	case token.Int:
		tok := p.advance()
		return &ast.Expr{Kind: &ast.IntegerLit{Value: tok.Text, Suffix: tok.Suffix}, Span: tok.Span}, nil
	case token.Float:
		tok := p.advance()
		return &ast.Expr{Kind: &ast.FloatLit{Value: tok.Text, Suffix: tok.Suffix}, Span: tok.Span}, nil
	case token.String:
		tok := p.advance()
		return &ast.Expr{Kind: &ast.StringLit{Value: tok.Text}, Span: tok.Span}, nil
	case token.Char:
		tok := p.advance()
		r := []rune(tok.Text)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		return &ast.Expr{Kind: &ast.CharLit{Value: v}, Span: tok.Span}, nil
	case token.True, token.False:
		tok := p.advance()
		return &ast.Expr{Kind: &ast.BoolLit{Value: tok.Kind == token.True}, Span: tok.Span}, nil
	case token.Nil:
		tok := p.advance()
		return &ast.Expr{Kind: &ast.NilLit{}, Span: tok.Span}, nil
	case token.FStringStart:
		return p.parseFString()
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseListOrComprehension()
	case token.LBrace:
		return p.parseBraceValue()
	case token.Pipe, token.PipePipe:
		return p.parseLambda()
	case token.If:
		return p.parseIf()
	case token.Match:
		return p.parseMatch()
	case token.While:
		return p.parseLabeledLoop(nil)
	case token.For:
		return p.parseLabeledLoop(nil)
	case token.Loop:
		return p.parseLabeledLoop(nil)
	case token.Break:
		return p.parseBreak()
	case token.Continue:
		tok := p.advance()
		return &ast.Expr{Kind: &ast.Continue{}, Span: tok.Span}, nil
	case token.Return:
		return p.parseReturn()
	case token.Let:
		return p.parseLet()
	case token.Fun:
		// A function declared inside a block is an item in statement
		// position, like Rust's nested fn.
		return p.parseFunction(nil, ast.VisNone, false)
	case token.Await:
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Await{Expr: inner}, Span: token.Join(start, inner.Span)}, nil
	case token.Ident, token.SelfLower, token.SelfUpper, token.Crate, token.Super:
		return p.parsePathExpr()
	}

	return nil, p.errf(start, "expected an expression, found %s", describe(p.cur))
}

// parsePathExpr parses a possibly `::`-qualified, possibly turbofished
// identifier path, then checks for the three constructs that key off of
// what immediately follows it: a macro invocation (`name!(...)`), a struct
// literal (`Name { field: value }`, suppressed inside an if/while/for/match
// head per noStruct), or neither (a plain identifier/path value).
func (p *Parser) parsePathExpr() (*ast.Expr, error) {
	start := p.cur.Span
	first := p.advance()
	segs := []string{first.Text}

	for p.at(token.ColonColon) {
		if p.peek(1).Kind == token.Lt {
			p.advance()
			p.advance()
			for !p.at(token.Gt) {
				if _, err := p.parseType(); err != nil {
					return nil, err
				}
				if !p.accept(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.Gt, "'>' to close turbofish"); err != nil {
				return nil, err
			}
			continue
		}
		p.advance()
		seg, err := p.expect(token.Ident, "path segment")
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg.Text)
	}
	name := joinPath(segs)
	end := p.prevEnd()

	if p.at(token.Bang) {
		p.advance()
		var delim ast.MacroDelimiter
		var closeKind token.Kind
		switch p.cur.Kind {
		case token.LParen:
			delim, closeKind = ast.DelimParen, token.RParen
		case token.LBracket:
			delim, closeKind = ast.DelimBracket, token.RBracket
		case token.LBrace:
			delim, closeKind = ast.DelimBrace, token.RBrace
		default:
			return nil, p.errf(p.cur.Span, "expected '(', '[', or '{' to open macro arguments")
		}
		p.advance()
		args, err := p.parseArgs(closeKind)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.MacroInvocation{Name: name, Delimiter: delim, Args: args}, Span: token.Join(start, p.prevEnd())}, nil
	}

	if p.at(token.LBrace) && !p.noStruct {
		return p.parseStructLiteral(name, start)
	}

	if len(segs) > 1 {
		return &ast.Expr{Kind: &ast.QualifiedName{Module: joinPath(segs[:len(segs)-1]), Name: segs[len(segs)-1]}, Span: token.Join(start, end)}, nil
	}
	return &ast.Expr{Kind: &ast.Identifier{Name: name}, Span: token.Join(start, end)}, nil
}

func (p *Parser) parseStructLiteral(name string, start token.Span) (*ast.Expr, error) {
	p.advance() // '{'
	var fields []ast.ObjectField
	for !p.at(token.RBrace) {
		key, err := p.expect(token.Ident, "field name in struct literal")
		if err != nil {
			return nil, err
		}
		var val *ast.Expr
		if p.accept(token.Colon) {
			val, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		} else {
			val = &ast.Expr{Kind: &ast.Identifier{Name: key.Text}, Span: key.Span} // field-init shorthand
		}
		fields = append(fields, ast.ObjectField{Key: key.Text, Value: val})
		if !p.accept(token.Comma) {
			break
		}
	}
	end, err := p.expect(token.RBrace, "'}' to close struct literal")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.ObjectLiteral{TypeName: name, Fields: fields}, Span: token.Join(start, end.Span)}, nil
}

// parseFString assembles an f-string token run (FStringStart, alternating
// FStringText/embedded-expr parts, FStringEnd) into a StringInterpolation
// node, re-entering the ordinary expression grammar for each embedded
// `{expr}` via the same Parser/Stream (the lexer's mode stack already
// ensures the tokens for that sub-expression are lexed correctly).
func (p *Parser) parseFString() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance() // FStringStart
	var parts []ast.InterpPart
	for {
		switch p.cur.Kind {
		case token.FStringText:
			parts = append(parts, ast.InterpPart{Text: p.cur.Text})
			p.advance()
		case token.FStringExprStart:
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.InterpPart{Expr: e})
			if _, err := p.expect(token.FStringExprEnd, "'}' to close f-string expression"); err != nil {
				return nil, err
			}
		case token.FStringEnd:
			end := p.advance()
			return &ast.Expr{Kind: &ast.StringInterpolation{Parts: parts}, Span: token.Join(start, end.Span)}, nil
		default:
			return nil, p.errf(p.cur.Span, "malformed f-string")
		}
	}
}

func (p *Parser) parseParenOrTuple() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance() // '('
	if p.accept(token.RParen) {
		return &ast.Expr{Kind: &ast.UnitLit{}, Span: token.Join(start, p.prevEnd())}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Comma) {
		if _, err := p.expect(token.RParen, "')' to close parenthesized expression"); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []*ast.Expr{first}
	for p.accept(token.Comma) {
		if p.at(token.RParen) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RParen, "')' to close tuple")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.TupleLiteral{Elements: elems}, Span: token.Join(start, end.Span)}, nil
}

func (p *Parser) parseListOrComprehension() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance() // '['
	if p.accept(token.RBracket) {
		return &ast.Expr{Kind: &ast.ListLiteral{}, Span: token.Join(start, p.prevEnd())}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.For) {
		clauses, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBracket, "']' to close list comprehension")
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Comprehension{Kind: ast.ComprehensionList, Element: first, Clauses: clauses}, Span: token.Join(start, end.Span)}, nil
	}
	elems := []*ast.Expr{first}
	for p.accept(token.Comma) {
		if p.at(token.RBracket) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RBracket, "']' to close list literal")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.ListLiteral{Elements: elems}, Span: token.Join(start, end.Span)}, nil
}

func (p *Parser) parseComprehensionClauses() ([]ast.ComprehensionClause, error) {
	var clauses []ast.ComprehensionClause
	for {
		if p.accept(token.For) {
			pat, err := p.parseForPattern()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.In, "'in' in comprehension clause"); err != nil {
				return nil, err
			}
			src, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.ComprehensionClause{Kind: ast.ClauseFor, Pattern: pat, Source: src})
			continue
		}
		if p.accept(token.If) {
			cond, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.ComprehensionClause{Kind: ast.ClauseIf, Source: cond})
			continue
		}
		break
	}
	return clauses, nil
}

// braceKind is the outcome of scanning a `{...}` value-position expression
// ahead of time to decide whether it is a block, an object/dict literal
// (plain or comprehension), or a set literal (plain or comprehension). The
// scan only inspects tokens (via Stream.Peek), so no backtracking is
// needed: once the kind is known the real parse proceeds straight through.
type braceKind int

const (
	braceBlock braceKind = iota
	braceObjectOrDict
	braceSet
	braceDictComprehension
	braceSetComprehension
)

// scanBraceKind peeks past the already-consumed `{` to classify its
// contents without consuming anything, by tracking nesting depth and
// looking for the first depth-0 `:`, `,`, `;`, or `for`.
func (p *Parser) scanBraceKind() braceKind {
	depth := 0
	sawColon := false
	for i := 1; ; i++ {
		t := p.peek(i)
		switch t.Kind {
		case token.EOF:
			return braceBlock
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket:
			depth--
		case token.RBrace:
			if depth == 0 {
				if sawColon {
					return braceObjectOrDict
				}
				return braceBlock
			}
			depth--
		case token.Colon:
			if depth == 0 {
				sawColon = true
			}
		case token.Comma:
			if depth == 0 {
				if sawColon {
					return braceObjectOrDict
				}
				return braceSet
			}
		case token.Semi:
			if depth == 0 {
				return braceBlock
			}
		case token.For:
			if depth == 0 {
				if sawColon {
					return braceDictComprehension
				}
				return braceSetComprehension
			}
		}
	}
}

func (p *Parser) parseBraceValue() (*ast.Expr, error) {
	start := p.cur.Span
	kind := p.scanBraceKind()
	p.advance() // '{'

	switch kind {
	case braceBlock:
		return p.parseBlockBody(start)
	case braceSet:
		var elems []*ast.Expr
		for !p.at(token.RBrace) {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RBrace, "'}' to close set literal")
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.SetLiteral{Elements: elems}, Span: token.Join(start, end.Span)}, nil
	case braceSetComprehension:
		elem, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		clauses, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBrace, "'}' to close set comprehension")
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Comprehension{Kind: ast.ComprehensionSet, Element: elem, Clauses: clauses}, Span: token.Join(start, end.Span)}, nil
	case braceDictComprehension:
		key, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "':' in dict comprehension"); err != nil {
			return nil, err
		}
		elem, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		clauses, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBrace, "'}' to close dict comprehension")
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Comprehension{Kind: ast.ComprehensionDict, Element: elem, Key: key, Clauses: clauses}, Span: token.Join(start, end.Span)}, nil
	default: // braceObjectOrDict
		return p.parseObjectOrDict(start)
	}
}

// parseObjectOrDict parses a `{ key: value, ... }` body. A key spelled as a
// bare identifier or string literal makes the whole literal an
// ObjectLiteral (destined for a Rust struct-shaped map); any other key
// expression makes it a DictLiteral (destined for an explicit HashMap with
// a non-string key type).
func (p *Parser) parseObjectOrDict(start token.Span) (*ast.Expr, error) {
	isObject := (p.at(token.Ident) || p.at(token.String)) && p.peek(1).Kind == token.Colon
	if isObject {
		var fields []ast.ObjectField
		for !p.at(token.RBrace) {
			keyTok := p.advance()
			if _, err := p.expect(token.Colon, "':' after object key"); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.ObjectField{Key: keyTok.Text, Value: val})
			if !p.accept(token.Comma) {
				break
			}
		}
		end, err := p.expect(token.RBrace, "'}' to close object literal")
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.ObjectLiteral{Fields: fields}, Span: token.Join(start, end.Span)}, nil
	}

	var entries []ast.DictEntry
	for !p.at(token.RBrace) {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "':' after dict key"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{Key: key, Value: val})
		if !p.accept(token.Comma) {
			break
		}
	}
	end, err := p.expect(token.RBrace, "'}' to close dict literal")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.DictLiteral{Entries: entries}, Span: token.Join(start, end.Span)}, nil
}

func (p *Parser) parseLambda() (*ast.Expr, error) {
	start := p.cur.Span
	var params []*ast.Param
	if p.accept(token.PipePipe) {
		// no parameters
	} else {
		p.advance() // '|'
		for !p.at(token.Pipe) {
			pstart := p.cur.Span
			name, err := p.expect(token.Ident, "lambda parameter name")
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
			params = append(params, &ast.Param{Name: name.Text, TypeAnnotation: typ, Span: token.Join(pstart, p.prevEnd())})
			if !p.accept(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.Pipe, "'|' to close lambda parameter list"); err != nil {
			return nil, err
		}
	}
	body, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.Lambda{Params: params, Body: body}, Span: token.Join(start, body.Span)}, nil
}

func (p *Parser) parseIf() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	old := p.noStruct
	p.noStruct = true
	cond, err := p.parseExpr()
	p.noStruct = old
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els *ast.Expr
	if p.accept(token.Else) {
		if p.at(token.If) {
			els, err = p.parseIf()
		} else {
			els, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	end := then.Span
	if els != nil {
		end = els.Span
	}
	return &ast.Expr{Kind: &ast.If{Cond: cond, Then: then, Else: els}, Span: token.Join(start, end)}, nil
}

func (p *Parser) parseMatch() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	old := p.noStruct
	p.noStruct = true
	scrutinee, err := p.parseExpr()
	p.noStruct = old
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "'{' to open match body"); err != nil {
		return nil, err
	}
	var arms []*ast.MatchArm
	for !p.at(token.RBrace) {
		astart := p.cur.Span
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard *ast.Expr
		if p.accept(token.If) {
			guard, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.FatArrow, "'=>' in match arm"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, &ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: token.Join(astart, body.Span)})
		p.accept(token.Comma)
	}
	end, err := p.expect(token.RBrace, "'}' to close match body")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.Match{Scrutinee: scrutinee, Arms: arms}, Span: token.Join(start, end.Span)}, nil
}

// parseLabeledLoop parses while/for/loop, optionally already under a
// consumed `label:` prefix.
func (p *Parser) parseLabeledLoop(label *string) (*ast.Expr, error) {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.While:
		p.advance()
		old := p.noStruct
		p.noStruct = true
		cond, err := p.parseExpr()
		p.noStruct = old
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.While{Label: label, Cond: cond, Body: body}, Span: token.Join(start, body.Span)}, nil
	case token.For:
		p.advance()
		pat, err := p.parseForPattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.In, "'in' in for loop"); err != nil {
			return nil, err
		}
		old := p.noStruct
		p.noStruct = true
		iter, err := p.parseExpr()
		p.noStruct = old
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.For{Label: label, Pattern: pat, Iter: iter, Body: body}, Span: token.Join(start, body.Span)}, nil
	case token.Loop:
		p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Loop{Label: label, Body: body}, Span: token.Join(start, body.Span)}, nil
	}
	return nil, p.errf(start, "expected 'while', 'for', or 'loop'")
}

func (p *Parser) parseBreak() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	var value *ast.Expr
	if p.exprCanStart() && !p.at(token.LBrace) {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	end := p.prevEnd()
	if value != nil {
		end = value.Span
	}
	return &ast.Expr{Kind: &ast.Break{Value: value}, Span: token.Join(start, end)}, nil
}

func (p *Parser) parseReturn() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	var value *ast.Expr
	if p.exprCanStart() {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	end := p.prevEnd()
	if value != nil {
		end = value.Span
	}
	return &ast.Expr{Kind: &ast.Return{Value: value}, Span: token.Join(start, end)}, nil
}

func (p *Parser) parseLet() (*ast.Expr, error) {
	start := p.cur.Span
	p.advance()
	mutable := p.accept(token.Mut)
	name, err := p.expect(token.Ident, "binding name")
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
	if _, err := p.expect(token.Assign, "'=' in let binding"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind: &ast.Let{Name: name.Text, IsMutable: mutable, TypeAnnotation: typ, Value: value},
		Span: token.Join(start, value.Span),
	}, nil
}

// parseBlock expects the current token to be `{` and always produces a
// Block, with no object/set/dict disambiguation: function, method, lambda,
// and control-flow bodies are unambiguously blocks by position, the same
// rule Rust itself uses.
func (p *Parser) parseBlock() (*ast.Expr, error) {
	start := p.cur.Span
	if _, err := p.expect(token.LBrace, "'{' to open block"); err != nil {
		return nil, err
	}
	return p.parseBlockBody(start)
}

// isBlockLikeExpr reports whether e is an if/match/while/for/loop/block or
// function form; a `(` that follows one starts a new expression rather
// than a call on e's value.
func isBlockLikeExpr(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.If, *ast.Match, *ast.While, *ast.For, *ast.Loop, *ast.Block, *ast.Function:
		return true
	}
	return false
}

func (p *Parser) parseBlockBody(start token.Span) (*ast.Expr, error) {
	old := p.noStruct
	p.noStruct = false
	var exprs []*ast.Expr
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		e, err := p.parseExpr()
		if err != nil {
			p.noStruct = old
			return nil, err
		}
		exprs = append(exprs, e)
		p.accept(token.Semi)
	}
	p.noStruct = old
	end, err := p.expect(token.RBrace, "'}' to close block")
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.Block{Exprs: exprs}, Span: token.Join(start, end.Span)}, nil
}
