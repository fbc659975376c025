package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/transpiler/rustgen"
)

// exprString lowers one expression to Rust source. Every Kind variant has a
// case here; an unknown one raises a LoweringError rather than formatting a
// debug dump.
func (t *Transpiler) exprString(e *ast.Expr) (string, error) {
	if e == nil {
		return "()", nil
	}
	switch k := e.Kind.(type) {
	case *ast.IntegerLit:
		return emitInteger(k), nil
	case *ast.FloatLit:
		return emitFloat(k), nil
	case *ast.StringLit:
		return rustStringLiteral(k.Value), nil
	case *ast.CharLit:
		return emitCharLit(k), nil
	case *ast.BoolLit:
		if k.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.UnitLit:
		return "()", nil
	case *ast.NilLit:
		return "None", nil
	case *ast.StringInterpolation:
		format, args, err := emitInterpolation(t, k)
		if err != nil {
			return "", err
		}
		if len(args) == 0 {
			return "format!(" + rustStringLiteral2(format) + ")", nil
		}
		return "format!(" + rustStringLiteral2(format) + ", " + strings.Join(args, ", ") + ")", nil
	case *ast.Identifier:
		if t.isGlobal(k.Name) {
			return "*" + ident(k.Name) + ".lock().unwrap()", nil
		}
		return rustgen.SanitizePath(rewritePath(k.Name)), nil
	case *ast.QualifiedName:
		return rustgen.SanitizePath(rewritePath(k.Module + "::" + k.Name)), nil
	case *ast.Binary:
		return t.emitBinary(k)
	case *ast.Unary:
		return t.emitUnary(k)
	case *ast.Assign:
		return t.emitAssign(k)
	case *ast.Let:
		return t.emitLet(k)
	case *ast.Block:
		return t.emitBlock(k)
	case *ast.If:
		return t.emitIf(k)
	case *ast.Ternary:
		// Ternary has no Rust spelling; it lowers to the equivalent
		// if-expression.
		cond, err := t.exprString(k.Cond)
		if err != nil {
			return "", err
		}
		then, err := t.exprString(k.Then)
		if err != nil {
			return "", err
		}
		els, err := t.exprString(k.Else)
		if err != nil {
			return "", err
		}
		return "if " + cond + " { " + then + " } else { " + els + " }", nil
	case *ast.Match:
		return t.emitMatch(k)
	case *ast.While:
		return t.emitWhile(k)
	case *ast.For:
		return t.emitFor(k)
	case *ast.Loop:
		return t.emitLoop(k)
	case *ast.Break:
		return t.emitBreak(k)
	case *ast.Continue:
		if k.Label != nil {
			return "continue '" + *k.Label, nil
		}
		return "continue", nil
	case *ast.Return:
		if k.Value == nil {
			return "return", nil
		}
		v, err := t.exprString(k.Value)
		if err != nil {
			return "", err
		}
		return "return " + v, nil
	case *ast.Lambda:
		return t.emitLambda(k)
	case *ast.Function:
		// A nested function declaration inside a block emits as a Rust
		// item in statement position.
		return t.emitFunctionItem(k)
	case *ast.Call:
		return t.emitCall(k)
	case *ast.MethodCall:
		return t.emitMethodCall(k)
	case *ast.FieldAccess:
		obj, err := t.operandString(k.Object)
		if err != nil {
			return "", err
		}
		if isTupleIndex(k.Field) {
			return obj + "." + k.Field, nil
		}
		return obj + "." + ident(k.Field), nil
	case *ast.IndexAccess:
		return t.emitIndex(k)
	case *ast.SliceExpr:
		return t.emitSlice(k)
	case *ast.RangeExpr:
		return t.emitRange(k)
	case *ast.ObjectLiteral:
		return t.emitObjectLiteral(k)
	case *ast.ListLiteral:
		return t.emitListLiteral(k, false)
	case *ast.TupleLiteral:
		return t.emitTupleLiteral(k)
	case *ast.SetLiteral:
		return t.emitSetLiteral(k)
	case *ast.DictLiteral:
		return t.emitDictLiteral(k)
	case *ast.Comprehension:
		return t.emitComprehension(k)
	case *ast.MacroInvocation:
		return t.emitMacro(k)
	case *ast.Try:
		inner, err := t.operandString(k.Expr)
		if err != nil {
			return "", err
		}
		return inner + "?", nil
	case *ast.Await:
		inner, err := t.operandString(k.Expr)
		if err != nil {
			return "", err
		}
		return inner + ".await", nil
	case *ast.StructDecl:
		return t.emitStructItem(k)
	case *ast.EnumDecl:
		return t.emitEnumItem(k)
	case *ast.ClassDecl:
		return t.emitClassItem(k)
	case *ast.TraitDecl:
		return t.emitTraitItem(k)
	case *ast.ImplDecl:
		return t.emitImplItem(k)
	case *ast.UseStatement:
		return t.emitUseItem(k), nil
	case *ast.Import:
		return t.emitImportItem(k), nil
	default:
		return "", t.errf("no Rust lowering for %T", e.Kind)
	}
}

// rustStringLiteral2 quotes a format string that already carries its own
// brace escaping; only quote/backslash/control escaping is applied.
func rustStringLiteral2(s string) string {
	return rustStringLiteral(s)
}

func isTupleIndex(field string) bool {
	if field == "" {
		return false
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return false
		}
	}
	return true
}

// Operator precedence collapsed to the binary levels the emitter needs
// for parenthesization decisions (higher binds tighter).
var binPrec = map[string]int{
	"||": 1, "&&": 2,
	"|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

// emitBinary reproduces the parse tree faithfully: a child whose
// operator binds looser than its parent, or an equal-precedence child on
// the right of a left-associative operator, is parenthesized so the Rust
// parse matches ours. `a * (b + c)` therefore never flattens to a * b + c.
func (t *Transpiler) emitBinary(b *ast.Binary) (string, error) {
	if b.Op == "+" && t.concatChain(b) {
		return t.emitStringConcat(b)
	}
	prec := binPrec[b.Op]
	left, err := t.binOperand(b.Left, prec, false)
	if err != nil {
		return "", err
	}
	right, err := t.binOperand(b.Right, prec, true)
	if err != nil {
		return "", err
	}
	return left + " " + b.Op + " " + right, nil
}

func (t *Transpiler) binOperand(e *ast.Expr, parentPrec int, isRight bool) (string, error) {
	s, err := t.exprString(e)
	if err != nil {
		return "", err
	}
	switch k := e.Kind.(type) {
	case *ast.Binary:
		childPrec := binPrec[k.Op]
		if childPrec < parentPrec || (childPrec == parentPrec && isRight) {
			return "(" + s + ")", nil
		}
	case *ast.Assign, *ast.RangeExpr, *ast.Ternary, *ast.Lambda, *ast.Return:
		return "(" + s + ")", nil
	}
	return s, nil
}

// concatChain reports whether a `+` tree contains a string literal or
// f-string anywhere, making the whole chain a string concatenation.
func (t *Transpiler) concatChain(b *ast.Binary) bool {
	var stringy func(e *ast.Expr) bool
	stringy = func(e *ast.Expr) bool {
		switch k := e.Kind.(type) {
		case *ast.StringLit, *ast.StringInterpolation:
			return true
		case *ast.Binary:
			return k.Op == "+" && (stringy(k.Left) || stringy(k.Right))
		}
		return false
	}
	return stringy(b.Left) || stringy(b.Right)
}

// emitStringConcat flattens a string `+` chain into one format! call whose
// operands append left to right, producing a String.
func (t *Transpiler) emitStringConcat(b *ast.Binary) (string, error) {
	var operands []*ast.Expr
	var flatten func(e *ast.Expr)
	flatten = func(e *ast.Expr) {
		if bin, ok := e.Kind.(*ast.Binary); ok && bin.Op == "+" {
			flatten(bin.Left)
			flatten(bin.Right)
			return
		}
		operands = append(operands, e)
	}
	flatten(&ast.Expr{Kind: b})

	var fmtStr strings.Builder
	var args []string
	for _, op := range operands {
		if lit, ok := op.Kind.(*ast.StringLit); ok {
			fmtStr.WriteString(escapeBraces(lit.Value))
			continue
		}
		fmtStr.WriteString("{}")
		s, err := t.exprString(op)
		if err != nil {
			return "", err
		}
		args = append(args, s)
	}
	if len(args) == 0 {
		return "format!(" + rustStringLiteral2(fmtStr.String()) + ")", nil
	}
	return "format!(" + rustStringLiteral2(fmtStr.String()) + ", " + strings.Join(args, ", ") + ")", nil
}

func (t *Transpiler) emitUnary(u *ast.Unary) (string, error) {
	operand, err := t.operandString(u.Operand)
	if err != nil {
		return "", err
	}
	switch u.Op {
	case "&mut":
		return "&mut " + operand, nil
	default:
		return u.Op + operand, nil
	}
}

// operandString renders e with grouping parens when it is a binary,
// assignment, or range expression, so postfix/unary application binds to
// the whole thing.
func (t *Transpiler) operandString(e *ast.Expr) (string, error) {
	s, err := t.exprString(e)
	if err != nil {
		return "", err
	}
	switch e.Kind.(type) {
	case *ast.Binary, *ast.Assign, *ast.RangeExpr, *ast.Ternary, *ast.Lambda, *ast.Unary:
		return "(" + s + ")", nil
	}
	return s, nil
}

func (t *Transpiler) emitAssign(a *ast.Assign) (string, error) {
	value, err := t.exprString(a.Value)
	if err != nil {
		return "", err
	}
	// A write to a global splices the assignment through the same lock the
	// reads use.
	if id, ok := a.Target.Kind.(*ast.Identifier); ok && t.isGlobal(id.Name) {
		return "*" + ident(id.Name) + ".lock().unwrap() " + a.Op + " " + value, nil
	}
	target, err := t.assignTargetString(a.Target)
	if err != nil {
		return "", err
	}
	return target + " " + a.Op + " " + value, nil
}

// assignTargetString renders the left-hand side of an assignment. Targets
// are restricted by the parser to identifiers, field chains, and index
// accesses; index targets use the plain `[i as usize]` form rather than
// the read-path `.get(...)` lowering so the write mutates in place.
func (t *Transpiler) assignTargetString(e *ast.Expr) (string, error) {
	switch k := e.Kind.(type) {
	case *ast.Identifier:
		return ident(k.Name), nil
	case *ast.FieldAccess:
		obj, err := t.assignTargetString(k.Object)
		if err != nil {
			obj, err = t.operandString(k.Object)
			if err != nil {
				return "", err
			}
		}
		if isTupleIndex(k.Field) {
			return obj + "." + k.Field, nil
		}
		return obj + "." + ident(k.Field), nil
	case *ast.IndexAccess:
		obj, err := t.assignTargetString(k.Object)
		if err != nil {
			return "", err
		}
		idx, err := t.exprString(k.Index)
		if err != nil {
			return "", err
		}
		if isStringKey(k.Index) {
			// String-keyed write targets insert through the map API; the
			// read path's .get() lowering has no place on an lvalue.
			return obj + ".entry(" + idx + ".to_string()).or_default()", nil
		}
		return obj + "[" + idx + " as usize]", nil
	default:
		return "", t.errf("invalid assignment target %T", e.Kind)
	}
}

func (t *Transpiler) emitLet(l *ast.Let) (string, error) {
	value, err := t.exprString(l.Value)
	if err != nil {
		return "", err
	}

	mut := ""
	if l.IsMutable {
		mut = "mut "
	}

	if l.TypeAnnotation == nil {
		return "let " + mut + ident(l.Name) + " = " + value, nil
	}

	typ := emitType(l.TypeAnnotation, "")

	// `let name: String = "…"` auto-converts the literal; a
	// &str target never wraps.
	if typ == "String" {
		if _, ok := l.Value.Kind.(*ast.StringLit); ok {
			value += ".to_string()"
		}
	}

	// A list literal bound to a fixed-size array annotation keeps the
	// array form instead of vec!.
	if _, ok := l.TypeAnnotation.Kind.(*ast.ArrayType); ok {
		if list, ok := l.Value.Kind.(*ast.ListLiteral); ok {
			value, err = t.emitListLiteral(list, true)
			if err != nil {
				return "", err
			}
		}
	}

	return "let " + mut + ident(l.Name) + ": " + typ + " = " + value, nil
}

func (t *Transpiler) emitBlock(b *ast.Block) (string, error) {
	if len(b.Exprs) == 0 {
		return "{ }", nil
	}
	var lines []string
	for i, e := range b.Exprs {
		s, err := t.exprString(e)
		if err != nil {
			return "", err
		}
		if i == len(b.Exprs)-1 {
			// Tail expression: its value is the block's value, so no
			// semicolon unless it is inherently a statement.
			if isStatementOnly(e) {
				s += ";"
			}
		} else if !isBlockLike(e) {
			s += ";"
		}
		lines = append(lines, s)
	}
	return "{\n" + indent(strings.Join(lines, "\n")) + "\n}", nil
}

// isStatementOnly reports expressions with no usable value whose tail
// position still wants a semicolon (let bindings and assignments).
func isStatementOnly(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.Let, *ast.Assign, *ast.UseStatement, *ast.Import:
		return true
	}
	return false
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}

func (t *Transpiler) emitIf(i *ast.If) (string, error) {
	cond, err := t.exprString(i.Cond)
	if err != nil {
		return "", err
	}
	then, err := t.blockString(i.Then)
	if err != nil {
		return "", err
	}
	out := "if " + cond + " " + then
	if i.Else != nil {
		if _, isElseIf := i.Else.Kind.(*ast.If); isElseIf {
			els, err := t.exprString(i.Else)
			if err != nil {
				return "", err
			}
			return out + " else " + els, nil
		}
		els, err := t.blockString(i.Else)
		if err != nil {
			return "", err
		}
		return out + " else " + els, nil
	}
	return out, nil
}

// blockString renders e as a braced block, wrapping a non-block body so
// if/while/for arms always emit Rust's mandatory braces.
func (t *Transpiler) blockString(e *ast.Expr) (string, error) {
	if b, ok := e.Kind.(*ast.Block); ok {
		return t.emitBlock(b)
	}
	s, err := t.exprString(e)
	if err != nil {
		return "", err
	}
	return "{ " + s + " }", nil
}

func (t *Transpiler) emitMatch(m *ast.Match) (string, error) {
	scrutinee, err := t.exprString(m.Scrutinee)
	if err != nil {
		return "", err
	}
	var arms []string
	for _, arm := range m.Arms {
		pat, err := t.patternString(arm.Pattern)
		if err != nil {
			return "", err
		}
		head := pat
		if arm.Guard != nil {
			guard, err := t.exprString(arm.Guard)
			if err != nil {
				return "", err
			}
			head += " if " + guard
		}
		body, err := t.exprString(arm.Body)
		if err != nil {
			return "", err
		}
		arms = append(arms, head+" => "+body+",")
	}
	return "match " + scrutinee + " {\n" + indent(strings.Join(arms, "\n")) + "\n}", nil
}

func labelPrefix(label *string) string {
	if label == nil {
		return ""
	}
	return "'" + *label + ": "
}

func (t *Transpiler) emitWhile(w *ast.While) (string, error) {
	cond, err := t.exprString(w.Cond)
	if err != nil {
		return "", err
	}
	body, err := t.blockString(w.Body)
	if err != nil {
		return "", err
	}
	return labelPrefix(w.Label) + "while " + cond + " " + body, nil
}

func (t *Transpiler) emitFor(f *ast.For) (string, error) {
	pat, err := t.patternString(f.Pattern)
	if err != nil {
		return "", err
	}
	iter, err := t.iterString(f.Iter)
	if err != nil {
		return "", err
	}
	body, err := t.blockString(f.Body)
	if err != nil {
		return "", err
	}
	return labelPrefix(f.Label) + "for " + pat + " in " + iter + " " + body, nil
}

// iterString renders a for-loop's iterable; a range(a, b) call lowers to
// the bare `a..b`.
func (t *Transpiler) iterString(e *ast.Expr) (string, error) {
	if call, ok := e.Kind.(*ast.Call); ok {
		if id, ok := call.Callee.Kind.(*ast.Identifier); ok && id.Name == "range" {
			return t.rangeCallString(call.Args, false)
		}
	}
	return t.exprString(e)
}

// rangeCallString lowers range(n) / range(a, b); parens wrap the result
// when it is used as a receiver rather than a for-iterable.
func (t *Transpiler) rangeCallString(args []*ast.Expr, parens bool) (string, error) {
	var lo, hi string
	var err error
	switch len(args) {
	case 1:
		lo = "0"
		hi, err = t.exprString(args[0])
	case 2:
		lo, err = t.exprString(args[0])
		if err == nil {
			hi, err = t.exprString(args[1])
		}
	default:
		return "", t.errf("range() takes 1 or 2 arguments, got %d", len(args))
	}
	if err != nil {
		return "", err
	}
	if parens {
		return "(" + lo + ".." + hi + ")", nil
	}
	return lo + ".." + hi, nil
}

func (t *Transpiler) emitLoop(l *ast.Loop) (string, error) {
	body, err := t.blockString(l.Body)
	if err != nil {
		return "", err
	}
	return labelPrefix(l.Label) + "loop " + body, nil
}

func (t *Transpiler) emitBreak(b *ast.Break) (string, error) {
	out := "break"
	if b.Label != nil {
		out += " '" + *b.Label
	}
	if b.Value != nil {
		v, err := t.exprString(b.Value)
		if err != nil {
			return "", err
		}
		out += " " + v
	}
	return out, nil
}

func (t *Transpiler) emitLambda(l *ast.Lambda) (string, error) {
	var params []string
	for _, p := range l.Params {
		s := ident(p.Name)
		if p.TypeAnnotation != nil {
			s += ": " + emitType(p.TypeAnnotation, "")
		}
		params = append(params, s)
	}
	body, err := t.exprString(l.Body)
	if err != nil {
		return "", err
	}
	return "|" + strings.Join(params, ", ") + "| " + body, nil
}

func (t *Transpiler) emitRange(r *ast.RangeExpr) (string, error) {
	lo, hi := "", ""
	var err error
	if r.Start != nil {
		lo, err = t.operandString(r.Start)
		if err != nil {
			return "", err
		}
	}
	if r.End != nil {
		hi, err = t.operandString(r.End)
		if err != nil {
			return "", err
		}
	}
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return lo + op + hi, nil
}

// pathRewrites maps source-language module spellings to their Rust
// counterparts; everything else passes through verbatim.
var pathRewrites = map[string]string{
	"Command": "std::process::Command",
}

func rewritePath(path string) string {
	seg, rest, found := strings.Cut(path, "::")
	if target, ok := pathRewrites[seg]; ok {
		if found {
			return target + "::" + rest
		}
		return target
	}
	return path
}
