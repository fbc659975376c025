package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

// parseExpr parses one full expression at the lowest precedence
// (assignment).
func (p *Parser) parseExpr() (*ast.Expr, error) { return p.parseAssignment() }

func assignOp(k token.Kind) (string, bool) {
	switch k {
	case token.Assign:
		return "=", true
	case token.PlusEq:
		return "+=", true
	case token.MinusEq:
		return "-=", true
	case token.StarEq:
		return "*=", true
	case token.SlashEq:
		return "/=", true
	case token.PercentEq:
		return "%=", true
	case token.AmpEq:
		return "&=", true
	case token.PipeEq:
		return "|=", true
	case token.CaretEq:
		return "^=", true
	case token.ShlEq:
		return "<<=", true
	case token.ShrEq:
		return ">>=", true
	}
	return "", false
}

// isAssignTarget reports whether e is a valid left-hand side for an
// assignment (identifier, field access, or index access). Anything else
// is a parse error rather than something Rust would reject later.
func isAssignTarget(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.Identifier, *ast.FieldAccess, *ast.IndexAccess:
		return true
	}
	return false
}

func (p *Parser) parseAssignment() (*ast.Expr, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOp(p.cur.Kind); ok {
		if !isAssignTarget(left) {
			return nil, p.errf(left.Span, "invalid assignment target")
		}
		p.advance()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Assign{Op: op, Target: left, Value: right}, Span: token.Join(left.Span, right.Span)}, nil
	}
	return left, nil
}

// parseTernary parses `cond ? then : else`, right-associative. The `?`
// here is only ever the one left unconsumed by postfix parsing (see
// noSpaceBeforeCur): a tight `expr?` is always the try operator.
func (p *Parser) parseTernary() (*ast.Expr, error) {
	cond, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	if !p.at(token.Question) {
		return cond, nil
	}
	p.advance()
	then, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon, "':' in ternary expression"); err != nil {
		return nil, err
	}
	els, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: &ast.Ternary{Cond: cond, Then: then, Else: els}, Span: token.Join(cond.Span, els.Span)}, nil
}

// exprCanStart reports whether cur could plausibly begin a new expression,
// used to tell a bounded range (`a..b`) from an open one (`a..`).
func (p *Parser) exprCanStart() bool {
	switch p.cur.Kind {
	case token.RParen, token.RBrace, token.RBracket, token.Comma, token.Semi,
		token.EOF, token.Colon, token.FatArrow:
		return false
	}
	return true
}

func (p *Parser) parseRange() (*ast.Expr, error) {
	if p.at(token.DotDot) || p.at(token.DotDotEq) {
		start := p.cur.Span
		inclusive := p.cur.Kind == token.DotDotEq
		p.advance()
		var end *ast.Expr
		if p.exprCanStart() {
			var err error
			end, err = p.parseOr()
			if err != nil {
				return nil, err
			}
		}
		endSpan := p.prevEnd()
		if end != nil {
			endSpan = end.Span
		}
		return &ast.Expr{Kind: &ast.RangeExpr{End: end, Inclusive: inclusive}, Span: token.Join(start, endSpan)}, nil
	}
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.DotDot) && !p.at(token.DotDotEq) {
		return left, nil
	}
	inclusive := p.cur.Kind == token.DotDotEq
	p.advance()
	var end *ast.Expr
	if p.exprCanStart() {
		end, err = p.parseOr()
		if err != nil {
			return nil, err
		}
	}
	endSpan := p.prevEnd()
	if end != nil {
		endSpan = end.Span
	}
	return &ast.Expr{Kind: &ast.RangeExpr{Start: left, End: end, Inclusive: inclusive}, Span: token.Join(left.Span, endSpan)}, nil
}

func (p *Parser) parseOr() (*ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.PipePipe) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: "||", Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseAnd() (*ast.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.at(token.AmpAmp) {
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: "&&", Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseBitOr() (*ast.Expr, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.at(token.Pipe) {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: "|", Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (*ast.Expr, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.Caret) {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: "^", Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (*ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.Amp) {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: "&", Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseEquality() (*ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(token.EqEq) || p.at(token.NotEq) {
		op := "=="
		if p.cur.Kind == token.NotEq {
			op = "!="
		}
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: op, Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseComparison() (*ast.Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur.Kind {
		case token.Lt:
			op = "<"
		case token.Gt:
			op = ">"
		case token.LtEq:
			op = "<="
		case token.GtEq:
			op = ">="
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: op, Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
}

func (p *Parser) parseShift() (*ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.Shl) || p.at(token.Shr) {
		op := "<<"
		if p.cur.Kind == token.Shr {
			op = ">>"
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: op, Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (*ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		op := "+"
		if p.cur.Kind == token.Minus {
			op = "-"
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: op, Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (*ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		var op string
		switch p.cur.Kind {
		case token.Star:
			op = "*"
		case token.Slash:
			op = "/"
		case token.Percent:
			op = "%"
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{Kind: &ast.Binary{Op: op, Left: left, Right: right}, Span: token.Join(left.Span, right.Span)}
	}
	return left, nil
}

// parseUnary parses prefix operators. A leading `+` is a parse-time
// no-op: it is consumed but does not wrap the operand in a Unary node,
// since Rust has no unary plus to emit it as.
func (p *Parser) parseUnary() (*ast.Expr, error) {
	switch p.cur.Kind {
	case token.Minus:
		start := p.cur.Span
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Unary{Op: "-", Operand: operand}, Span: token.Join(start, operand.Span)}, nil
	case token.Bang:
		start := p.cur.Span
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: &ast.Unary{Op: "!", Operand: operand}, Span: token.Join(start, operand.Span)}, nil
	case token.Plus:
		p.advance()
		return p.parseUnary()
	case token.Amp:
		start := p.cur.Span
		p.advance()
		mutable := p.accept(token.Mut)
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := "&"
		if mutable {
			op = "&mut"
		}
		return &ast.Expr{Kind: &ast.Unary{Op: op, Operand: operand}, Span: token.Join(start, operand.Span)}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (*ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			if p.at(token.Await) {
				p.advance()
				e = &ast.Expr{Kind: &ast.Await{Expr: e}, Span: token.Join(e.Span, p.prevEnd())}
				continue
			}
			var field string
			switch p.cur.Kind {
			case token.Ident:
				field = p.advance().Text
			case token.Int:
				field = p.advance().Text // tuple field access: e.0
			default:
				return nil, p.errf(p.cur.Span, "expected field or method name after '.', found %s", describe(p.cur))
			}
			if p.at(token.ColonColon) && p.peek(1).Kind == token.Lt {
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
			}
			if p.at(token.LParen) {
				p.advance()
				args, err := p.parseArgs(token.RParen)
				if err != nil {
					return nil, err
				}
				e = &ast.Expr{Kind: &ast.MethodCall{Receiver: e, Method: field, Args: args}, Span: token.Join(e.Span, p.prevEnd())}
			} else {
				e = &ast.Expr{Kind: &ast.FieldAccess{Object: e, Field: field}, Span: token.Join(e.Span, p.prevEnd())}
			}

		case p.at(token.LParen):
			// A `(` after a block-like expression never starts a
			// call: `loop { } (x, y)` is two expressions, the second
			// a tuple, not an invocation of the loop's value.
			if isBlockLikeExpr(e) {
				return e, nil
			}
			p.advance()
			args, err := p.parseArgs(token.RParen)
			if err != nil {
				return nil, err
			}
			e = &ast.Expr{Kind: &ast.Call{Callee: e, Args: args}, Span: token.Join(e.Span, p.prevEnd())}

		case p.at(token.LBracket):
			p.advance()
			if p.accept(token.Colon) {
				var end *ast.Expr
				if !p.at(token.RBracket) {
					end, err = p.parseExpr()
					if err != nil {
						return nil, err
					}
				}
				if _, err := p.expect(token.RBracket, "']' to close slice"); err != nil {
					return nil, err
				}
				e = &ast.Expr{Kind: &ast.SliceExpr{Object: e, End: end}, Span: token.Join(e.Span, p.prevEnd())}
				continue
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.accept(token.Colon) {
				var end *ast.Expr
				if !p.at(token.RBracket) {
					end, err = p.parseExpr()
					if err != nil {
						return nil, err
					}
				}
				if _, err := p.expect(token.RBracket, "']' to close slice"); err != nil {
					return nil, err
				}
				e = &ast.Expr{Kind: &ast.SliceExpr{Object: e, Start: idx, End: end}, Span: token.Join(e.Span, p.prevEnd())}
				continue
			}
			if _, err := p.expect(token.RBracket, "']' to close index"); err != nil {
				return nil, err
			}
			e = &ast.Expr{Kind: &ast.IndexAccess{Object: e, Index: idx}, Span: token.Join(e.Span, p.prevEnd())}

		case p.at(token.Question) && p.noSpaceBeforeCur():
			p.advance()
			e = &ast.Expr{Kind: &ast.Try{Expr: e}, Span: token.Join(e.Span, p.prevEnd())}

		default:
			return e, nil
		}
	}
}

func (p *Parser) parseArgs(close token.Kind) ([]*ast.Expr, error) {
	var args []*ast.Expr
	for !p.at(close) {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(close, "closing delimiter for argument list"); err != nil {
		return nil, err
	}
	return args, nil
}
