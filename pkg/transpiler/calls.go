package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
)

// mathBuiltins are the calls with dedicated Rust rewrites. They are recognized both bare (`sqrt(x)`) and
// qualified (`std::math::sqrt(x)`).
var mathBuiltins = map[string]bool{
	"sqrt": true, "pow": true, "abs": true, "min": true, "max": true,
	"floor": true, "ceil": true, "round": true,
}

func (t *Transpiler) emitCall(c *ast.Call) (string, error) {
	if name, ok := calleeName(c.Callee); ok {
		switch {
		case name == "println" || name == "print":
			return t.emitPrint(name, c.Args)
		case name == "format":
			return t.emitFormat(c.Args)
		case name == "range":
			return t.rangeCallString(c.Args, true)
		case mathBuiltins[name]:
			return t.emitMathBuiltin(name, c.Args)
		case strings.HasPrefix(name, "std::math::") && mathBuiltins[strings.TrimPrefix(name, "std::math::")]:
			return t.emitMathBuiltin(strings.TrimPrefix(name, "std::math::"), c.Args)
		}
	}

	callee, err := t.operandString(c.Callee)
	if err != nil {
		return "", err
	}
	args, err := t.argStrings(c.Args)
	if err != nil {
		return "", err
	}
	return callee + "(" + strings.Join(args, ", ") + ")", nil
}

func calleeName(e *ast.Expr) (string, bool) {
	switch k := e.Kind.(type) {
	case *ast.Identifier:
		return k.Name, true
	case *ast.QualifiedName:
		return k.Module + "::" + k.Name, true
	}
	return "", false
}

func (t *Transpiler) argStrings(args []*ast.Expr) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, err := t.exprString(a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// emitPrint lowers println/print calls and macros:
//   - no arguments       → println!()
//   - one string literal → println!("…") verbatim
//   - a literal first argument containing {} placeholders is kept as the
//     format string, remaining arguments fill the placeholders in order
//   - one f-string      → println!("…", parts…)
//   - anything else     → space-separated "{} {} {}" with positional args
func (t *Transpiler) emitPrint(name string, args []*ast.Expr) (string, error) {
	macro := name + "!"
	if len(args) == 0 {
		return macro + "()", nil
	}

	if lit, ok := args[0].Kind.(*ast.StringLit); ok {
		if len(args) == 1 {
			return macro + "(" + rustStringLiteral(lit.Value) + ")", nil
		}
		if hasPlaceholders(lit.Value) {
			rest, err := t.argStrings(args[1:])
			if err != nil {
				return "", err
			}
			return macro + "(" + rustStringLiteral(lit.Value) + ", " + strings.Join(rest, ", ") + ")", nil
		}
	}

	if interp, ok := args[0].Kind.(*ast.StringInterpolation); ok && len(args) == 1 {
		format, fargs, err := emitInterpolation(t, interp)
		if err != nil {
			return "", err
		}
		if len(fargs) == 0 {
			return macro + "(" + rustStringLiteral2(format) + ")", nil
		}
		return macro + "(" + rustStringLiteral2(format) + ", " + strings.Join(fargs, ", ") + ")", nil
	}

	var fmtParts []string
	var fargs []string
	for _, a := range args {
		// A unit-typed argument would render as "()" under {}; it is
		// suppressed instead.
		if _, isUnit := a.Kind.(*ast.UnitLit); isUnit {
			continue
		}
		if lit, ok := a.Kind.(*ast.StringLit); ok {
			fmtParts = append(fmtParts, escapeBraces(lit.Value))
			continue
		}
		fmtParts = append(fmtParts, "{}")
		s, err := t.exprString(a)
		if err != nil {
			return "", err
		}
		fargs = append(fargs, s)
	}
	format := strings.Join(fmtParts, " ")
	if len(fargs) == 0 {
		return macro + "(" + rustStringLiteral2(format) + ")", nil
	}
	return macro + "(" + rustStringLiteral2(format) + ", " + strings.Join(fargs, ", ") + ")", nil
}

func (t *Transpiler) emitFormat(args []*ast.Expr) (string, error) {
	s, err := t.emitPrint("format", args)
	if err != nil {
		return "", err
	}
	return s, nil
}

// emitMathBuiltin applies the math-builtin rewrites. Float-vs-int
// selection for abs/min/max looks at the literal arguments; an f64-typed
// expression without a visible float literal takes the int path.
func (t *Transpiler) emitMathBuiltin(name string, args []*ast.Expr) (string, error) {
	strs, err := t.argStrings(args)
	if err != nil {
		return "", err
	}
	for i, a := range args {
		if needsOperandParens(a) {
			strs[i] = "(" + strs[i] + ")"
		}
	}
	anyFloat := false
	for _, a := range args {
		if isFloatish(a) {
			anyFloat = true
		}
	}

	switch name {
	case "sqrt":
		if len(strs) != 1 {
			return "", t.errf("sqrt takes 1 argument")
		}
		return "(" + strs[0] + " as f64).sqrt()", nil
	case "pow":
		if len(strs) != 2 {
			return "", t.errf("pow takes 2 arguments")
		}
		return "(" + strs[0] + " as f64).powf(" + strs[1] + " as f64)", nil
	case "abs":
		if len(strs) != 1 {
			return "", t.errf("abs takes 1 argument")
		}
		if anyFloat {
			return "(" + strs[0] + ").abs()", nil
		}
		return strs[0] + ".abs()", nil
	case "min", "max":
		if len(strs) != 2 {
			return "", t.errf("%s takes 2 arguments", name)
		}
		if anyFloat {
			return "(" + strs[0] + " as f64)." + name + "(" + strs[1] + " as f64)", nil
		}
		return "std::cmp::" + name + "(" + strs[0] + ", " + strs[1] + ")", nil
	case "floor", "ceil", "round":
		if len(strs) != 1 {
			return "", t.errf("%s takes 1 argument", name)
		}
		return "(" + strs[0] + " as f64)." + name + "()", nil
	}
	return "", t.errf("unknown math builtin %q", name)
}

func needsOperandParens(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.Binary, *ast.Unary, *ast.Ternary, *ast.RangeExpr:
		return true
	}
	return false
}

func isFloatish(e *ast.Expr) bool {
	switch k := e.Kind.(type) {
	case *ast.FloatLit:
		return true
	case *ast.Binary:
		return isFloatish(k.Left) || isFloatish(k.Right)
	case *ast.Unary:
		return isFloatish(k.Operand)
	}
	return false
}

func (t *Transpiler) emitMethodCall(m *ast.MethodCall) (string, error) {
	recv, err := t.operandString(m.Receiver)
	if err != nil {
		return "", err
	}
	args, err := t.argStrings(m.Args)
	if err != nil {
		return "", err
	}
	return recv + "." + ident(m.Method) + "(" + strings.Join(args, ", ") + ")", nil
}

// emitMacro lowers macro invocations. println!/print!/format! reuse the
// call-form lowering so both spellings behave identically;
// vec!/df!/sql! and anything else pass through with their delimiter
// preserved, addressed at a macro the runtime crate is assumed to define.
func (t *Transpiler) emitMacro(m *ast.MacroInvocation) (string, error) {
	switch m.Name {
	case "println", "print":
		return t.emitPrint(m.Name, m.Args)
	case "format":
		return t.emitFormat(m.Args)
	}

	args, err := t.argStrings(m.Args)
	if err != nil {
		return "", err
	}
	open, close := "(", ")"
	switch m.Delimiter {
	case ast.DelimBracket:
		open, close = "[", "]"
	case ast.DelimBrace:
		open, close = "{", "}"
	}
	return ident(m.Name) + "!" + open + strings.Join(args, ", ") + close, nil
}
