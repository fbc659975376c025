// Package typeinfer fills in the type annotations the parser leaves nil:
// parameter types absent from the source, and function return types. It is
// local to a single function body — no whole-program inference, no
// unification, just the body-use heuristics a reader can predict by eye.
package typeinfer

import "github.com/ruchy-lang/ruchy/pkg/ast"

var (
	typeI32     = &ast.Type{Kind: &ast.NamedType{Path: "i32"}}
	typeF64     = &ast.Type{Kind: &ast.NamedType{Path: "f64"}}
	typeString  = &ast.Type{Kind: &ast.NamedType{Path: "String"}}
	typeDisplay = &ast.Type{Kind: &ast.NamedType{Path: "impl std::fmt::Display"}}
	typeFn      = &ast.Type{Kind: &ast.NamedType{Path: "impl Fn"}}
)

var arithOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}

// InferFunction fills fn.Params[i].TypeAnnotation and fn.ReturnType for
// every nil annotation, leaving explicit annotations untouched. main
// never receives a return type.
func InferFunction(fn *ast.Function) {
	for _, p := range fn.Params {
		if p.TypeAnnotation == nil {
			p.TypeAnnotation = inferParamType(fn, p.Name)
		}
	}
	if fn.ReturnType == nil && fn.Name != "main" {
		fn.ReturnType = InferReturnType(fn)
	}
}

// inferParamType classifies a parameter by how its body uses it: arithmetic
// with another numeric operand wins over string concatenation, which wins
// over being called as a function, which falls back to impl Display.
func inferParamType(fn *ast.Function, name string) *ast.Type {
	u := newUsage(name)
	ast.Walk(u, fn.Body)

	switch {
	case u.arithNumeric:
		return typeI32
	case u.stringConcat:
		return typeString
	case u.calledAsFn:
		return typeFn
	default:
		return typeDisplay
	}
}

type usage struct {
	name         string
	arithNumeric bool
	stringConcat bool
	calledAsFn   bool
}

func newUsage(name string) *usage { return &usage{name: name} }

func (u *usage) Visit(e *ast.Expr) ast.Visitor {
	if e == nil {
		return u
	}
	switch k := e.Kind.(type) {
	case *ast.Lambda:
		return nil // parameter usage inside a nested closure is that closure's business
	case *ast.Binary:
		if arithOps[k.Op] {
			other := otherOperand(k, u.name)
			if other != nil {
				switch {
				case isStringy(other):
					if k.Op == "+" {
						u.stringConcat = true
					}
				case isNumericLiteralOrIdent(other):
					u.arithNumeric = true
				}
			}
		}
	case *ast.Call:
		if id, ok := k.Callee.Kind.(*ast.Identifier); ok && id.Name == u.name {
			u.calledAsFn = true
		}
	}
	return u
}

// otherOperand returns the operand of bin that is not the bare identifier
// named target, or nil if neither/both sides are.
func otherOperand(bin *ast.Binary, target string) *ast.Expr {
	leftIsTarget := isIdent(bin.Left, target)
	rightIsTarget := isIdent(bin.Right, target)
	switch {
	case leftIsTarget && !rightIsTarget:
		return bin.Right
	case rightIsTarget && !leftIsTarget:
		return bin.Left
	default:
		return nil
	}
}

func isIdent(e *ast.Expr, name string) bool {
	id, ok := e.Kind.(*ast.Identifier)
	return ok && id.Name == name
}

func isStringy(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.StringLit, *ast.StringInterpolation:
		return true
	}
	return false
}

func isNumericLiteralOrIdent(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.IntegerLit, *ast.FloatLit, *ast.Identifier:
		return true
	}
	return false
}

// InferReturnType looks at the tail expression of fn's body and every
// `return expr` reachable without crossing into a nested closure. If every
// one resolves to the same declared type, that type is returned. If the
// body is purely side-effectful (a println/print call, or nothing with a
// known type), nil is returned, meaning "no explicit return type" (Rust's
// `()`).
func InferReturnType(fn *ast.Function) *ast.Type {
	params := make(map[string]*ast.Type, len(fn.Params))
	for _, p := range fn.Params {
		params[p.Name] = p.TypeAnnotation
	}

	exprs := []*ast.Expr{tailExpr(fn.Body)}
	exprs = append(exprs, collectReturns(fn.Body)...)

	var inferred *ast.Type
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if isSideEffectOnly(e) {
			continue
		}
		t := inferExprType(e, params)
		if t == nil {
			return nil // a value of unknown type appears; safest to emit nothing
		}
		if inferred == nil {
			inferred = t
		} else if namedPath(inferred) != namedPath(t) {
			return nil // disagreement; don't guess
		}
	}
	return inferred
}

func namedPath(t *ast.Type) string {
	if t == nil {
		return ""
	}
	if nt, ok := t.Kind.(*ast.NamedType); ok {
		return nt.Path
	}
	return ""
}

// tailExpr returns the last statement of a block body, or the body itself
// when it is a single non-block expression (a lambda-style `fun f(x) = x`
// is represented the same way by this parser's Function.Body).
func tailExpr(body *ast.Expr) *ast.Expr {
	if body == nil {
		return nil
	}
	if b, ok := body.Kind.(*ast.Block); ok {
		if len(b.Exprs) == 0 {
			return nil
		}
		return b.Exprs[len(b.Exprs)-1]
	}
	return body
}

// collectReturns walks body for every `return expr`, without descending
// into nested closures, whose own returns belong to them.
func collectReturns(body *ast.Expr) []*ast.Expr {
	var out []*ast.Expr
	ast.Walk(returnCollector{out: &out}, body)
	return out
}

type returnCollector struct{ out *[]*ast.Expr }

func (r returnCollector) Visit(e *ast.Expr) ast.Visitor {
	if e == nil {
		return r
	}
	switch k := e.Kind.(type) {
	case *ast.Lambda, *ast.Function:
		return nil
	case *ast.Return:
		if k.Value != nil {
			*r.out = append(*r.out, k.Value)
		}
	}
	return r
}

func isSideEffectOnly(e *ast.Expr) bool {
	switch k := e.Kind.(type) {
	case *ast.MacroInvocation:
		return k.Name == "println" || k.Name == "print"
	case *ast.Call:
		if id, ok := k.Callee.Kind.(*ast.Identifier); ok {
			return id.Name == "println" || id.Name == "print"
		}
	}
	return false
}

// inferExprType resolves the declared type of e when it is a parameter
// identifier, a numeric literal, or arithmetic over either.
func inferExprType(e *ast.Expr, params map[string]*ast.Type) *ast.Type {
	switch k := e.Kind.(type) {
	case *ast.Identifier:
		return params[k.Name]
	case *ast.IntegerLit:
		return typeI32
	case *ast.FloatLit:
		return typeF64
	case *ast.Binary:
		if arithOps[k.Op] {
			lt := inferExprType(k.Left, params)
			rt := inferExprType(k.Right, params)
			if lt != nil && namedPath(lt) == namedPath(rt) {
				return lt
			}
		}
	}
	return nil
}
