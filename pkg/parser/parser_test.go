package parser

import (
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/source"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	buf, err := source.New("test.ruchy", src)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	file, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return file
}

func singleExpr(t *testing.T, src string) *ast.Expr {
	t.Helper()
	file := mustParse(t, src)
	if len(file.Exprs) != 1 {
		t.Fatalf("Parse(%q): want 1 top-level expr, got %d", src, len(file.Exprs))
	}
	return file.Exprs[0]
}

func TestBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 must bind as 1 + (2 * 3): the top node is the '+'.
	e := singleExpr(t, "1 + 2 * 3")
	bin, ok := e.Kind.(*ast.Binary)
	if !ok {
		t.Fatalf("want *ast.Binary at top, got %T", e.Kind)
	}
	if bin.Op != "+" {
		t.Fatalf("want top op '+', got %q", bin.Op)
	}
	rhs, ok := bin.Right.Kind.(*ast.Binary)
	if !ok || rhs.Op != "*" {
		t.Fatalf("want right child '*', got %#v", bin.Right.Kind)
	}
}

func TestComparisonBindsLooserThanAdditive(t *testing.T) {
	e := singleExpr(t, "1 + 2 < 3 * 4")
	bin, ok := e.Kind.(*ast.Binary)
	if !ok || bin.Op != "<" {
		t.Fatalf("want top op '<', got %#v", e.Kind)
	}
}

func TestLogicalAndBindsTighterThanOr(t *testing.T) {
	e := singleExpr(t, "a || b && c")
	bin, ok := e.Kind.(*ast.Binary)
	if !ok || bin.Op != "||" {
		t.Fatalf("want top op '||', got %#v", e.Kind)
	}
	rhs, ok := bin.Right.Kind.(*ast.Binary)
	if !ok || rhs.Op != "&&" {
		t.Fatalf("want right child '&&', got %#v", bin.Right.Kind)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	e := singleExpr(t, "a = b = 1")
	top, ok := e.Kind.(*ast.Assign)
	if !ok {
		t.Fatalf("want *ast.Assign, got %T", e.Kind)
	}
	if _, ok := top.Value.Kind.(*ast.Assign); !ok {
		t.Fatalf("want nested assign on rhs, got %#v", top.Value.Kind)
	}
}

func TestTernary(t *testing.T) {
	e := singleExpr(t, "x > 0 ? 1 : -1")
	tern, ok := e.Kind.(*ast.Ternary)
	if !ok {
		t.Fatalf("want *ast.Ternary, got %T", e.Kind)
	}
	if _, ok := tern.Cond.Kind.(*ast.Binary); !ok {
		t.Fatalf("want binary condition, got %#v", tern.Cond.Kind)
	}
}

func TestTryOperatorTightAgainstPrecedingToken(t *testing.T) {
	// No space before '?': postfix try, wraps only the call.
	e := singleExpr(t, "foo()?")
	try, ok := e.Kind.(*ast.Try)
	if !ok {
		t.Fatalf("want *ast.Try, got %T", e.Kind)
	}
	if _, ok := try.Expr.Kind.(*ast.Call); !ok {
		t.Fatalf("want call wrapped by try, got %#v", try.Expr.Kind)
	}
}

func TestTernaryNotConfusedWithTry(t *testing.T) {
	// A '?' with a leading space is the ternary operator, not try.
	e := singleExpr(t, "ok ? 1 : 2")
	if _, ok := e.Kind.(*ast.Ternary); !ok {
		t.Fatalf("want *ast.Ternary, got %T", e.Kind)
	}
}

func TestUnaryPlusIsNoOp(t *testing.T) {
	e := singleExpr(t, "+1")
	if _, ok := e.Kind.(*ast.Unary); ok {
		t.Fatalf("unary '+' should not produce an ast.Unary node, got %#v", e.Kind)
	}
	if _, ok := e.Kind.(*ast.IntegerLit); !ok {
		t.Fatalf("want bare integer literal, got %T", e.Kind)
	}
}

func TestIfConditionDoesNotSwallowStructLiteral(t *testing.T) {
	e := singleExpr(t, "if x { 1 } else { 2 }")
	ifexpr, ok := e.Kind.(*ast.If)
	if !ok {
		t.Fatalf("want *ast.If, got %T", e.Kind)
	}
	if _, ok := ifexpr.Cond.Kind.(*ast.Identifier); !ok {
		t.Fatalf("want bare identifier condition (no struct literal), got %#v", ifexpr.Cond.Kind)
	}
	then, ok := ifexpr.Then.Kind.(*ast.Block)
	if !ok || len(then.Exprs) != 1 {
		t.Fatalf("want single-expr then-block, got %#v", ifexpr.Then.Kind)
	}
}

func TestStructLiteralAllowedOutsideCondition(t *testing.T) {
	e := singleExpr(t, "let p = Point { x: 1, y: 2 }")
	let, ok := e.Kind.(*ast.Let)
	if !ok {
		t.Fatalf("want *ast.Let, got %T", e.Kind)
	}
	obj, ok := let.Value.Kind.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("want *ast.ObjectLiteral, got %T", let.Value.Kind)
	}
	if obj.TypeName != "Point" {
		t.Fatalf("want TypeName %q, got %q", "Point", obj.TypeName)
	}
	if len(obj.Fields) != 2 {
		t.Fatalf("want 2 fields, got %d", len(obj.Fields))
	}
}

func TestAnonymousObjectLiteralHasNoTypeName(t *testing.T) {
	e := singleExpr(t, `{"a": 1, "b": 2}`)
	obj, ok := e.Kind.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("want *ast.ObjectLiteral, got %T", e.Kind)
	}
	if obj.TypeName != "" {
		t.Fatalf("want empty TypeName for anonymous literal, got %q", obj.TypeName)
	}
}

func TestSetLiteral(t *testing.T) {
	e := singleExpr(t, "{1, 2, 3}")
	if _, ok := e.Kind.(*ast.SetLiteral); !ok {
		t.Fatalf("want *ast.SetLiteral, got %T", e.Kind)
	}
}

func TestEmptyBracesAreABlock(t *testing.T) {
	e := singleExpr(t, "{}")
	if _, ok := e.Kind.(*ast.Block); !ok {
		t.Fatalf("want *ast.Block for empty braces, got %T", e.Kind)
	}
}

func TestListComprehension(t *testing.T) {
	e := singleExpr(t, "[x * 2 for x in xs if x > 0]")
	comp, ok := e.Kind.(*ast.Comprehension)
	if !ok {
		t.Fatalf("want *ast.Comprehension, got %T", e.Kind)
	}
	if comp.Kind != ast.ComprehensionList {
		t.Fatalf("want list comprehension kind, got %v", comp.Kind)
	}
	if len(comp.Clauses) != 2 {
		t.Fatalf("want 2 clauses (for, if), got %d", len(comp.Clauses))
	}
}

func TestDictComprehensionDisambiguatedFromSet(t *testing.T) {
	e := singleExpr(t, "{k: v for k, v in pairs}")
	comp, ok := e.Kind.(*ast.Comprehension)
	if !ok {
		t.Fatalf("want *ast.Comprehension, got %T", e.Kind)
	}
	if comp.Kind != ast.ComprehensionDict {
		t.Fatalf("want dict comprehension kind, got %v", comp.Kind)
	}
}

func TestBlockOmitsSemicolonAfterBlockLikeTail(t *testing.T) {
	// No trailing ';' needed after an `if` used as a statement.
	file := mustParse(t, `fun f() {
	if true { 1 } else { 2 }
	3
}`)
	if len(file.Exprs) != 1 {
		t.Fatalf("want 1 top-level function, got %d", len(file.Exprs))
	}
	fn, ok := file.Exprs[0].Kind.(*ast.Function)
	if !ok {
		t.Fatalf("want *ast.Function, got %T", file.Exprs[0].Kind)
	}
	body, ok := fn.Body.Kind.(*ast.Block)
	if !ok {
		t.Fatalf("want *ast.Block body, got %T", fn.Body.Kind)
	}
	if len(body.Exprs) != 2 {
		t.Fatalf("want 2 statements in function body, got %d", len(body.Exprs))
	}
}

func TestLabeledLoopSpanIncludesLabel(t *testing.T) {
	e := singleExpr(t, "outer: loop { break outer }")
	loop, ok := e.Kind.(*ast.Loop)
	if !ok {
		t.Fatalf("want *ast.Loop, got %T", e.Kind)
	}
	if loop.Label == nil || *loop.Label != "outer" {
		t.Fatalf("want label %q, got %v", "outer", loop.Label)
	}
	if e.Span.Start != 0 {
		t.Fatalf("want span to start at the label, got start=%d", e.Span.Start)
	}
}

func TestRangeExpr(t *testing.T) {
	e := singleExpr(t, "0..10")
	r, ok := e.Kind.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("want *ast.RangeExpr, got %T", e.Kind)
	}
	if r.Inclusive {
		t.Fatalf("want exclusive range for '..'")
	}

	e2 := singleExpr(t, "0..=10")
	r2, ok := e2.Kind.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("want *ast.RangeExpr, got %T", e2.Kind)
	}
	if !r2.Inclusive {
		t.Fatalf("want inclusive range for '..='")
	}
}

func TestMethodCallTurbofish(t *testing.T) {
	e := singleExpr(t, "iter.collect::<Vec<_>>()")
	mc, ok := e.Kind.(*ast.MethodCall)
	if !ok {
		t.Fatalf("want *ast.MethodCall, got %T", e.Kind)
	}
	if mc.Method != "collect" {
		t.Fatalf("want method %q, got %q", "collect", mc.Method)
	}
}

func TestMatchWithGuard(t *testing.T) {
	e := singleExpr(t, `match x {
	n if n > 0 => 1,
	_ => 0,
}`)
	m, ok := e.Kind.(*ast.Match)
	if !ok {
		t.Fatalf("want *ast.Match, got %T", e.Kind)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("want 2 arms, got %d", len(m.Arms))
	}
	if m.Arms[0].Guard == nil {
		t.Fatalf("want first arm to carry a guard")
	}
}

func TestUseStatement(t *testing.T) {
	e := singleExpr(t, "use std::collections::{HashMap, HashSet}")
	if _, ok := e.Kind.(*ast.UseStatement); !ok {
		t.Fatalf("want *ast.UseStatement, got %T", e.Kind)
	}
}

func TestImportURLValidation(t *testing.T) {
	buf, err := source.New("test.ruchy", `import "http://evil.com/module.ruchy"`)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	if _, err := Parse(buf); err == nil {
		t.Fatalf("want parse error for insecure import URL, got nil")
	}
}

func TestParseErrorRecoversAtTopLevel(t *testing.T) {
	buf, err := source.New("test.ruchy", `fun broken( {
	1
}
fun ok() {
	2
}`)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	file, parseErr := Parse(buf)
	if parseErr == nil {
		t.Fatalf("want a parse error reported for the broken function")
	}
	found := false
	for _, item := range file.Exprs {
		if fn, ok := item.Kind.(*ast.Function); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want recovery to still parse the later 'ok' function, got %#v", file.Exprs)
	}
}

func TestStructDeclAndFields(t *testing.T) {
	e := singleExpr(t, `struct Point {
	x: i32,
	y: i32,
}`)
	s, ok := e.Kind.(*ast.StructDecl)
	if !ok {
		t.Fatalf("want *ast.StructDecl, got %T", e.Kind)
	}
	if s.Name != "Point" || len(s.Fields) != 2 {
		t.Fatalf("want Point with 2 fields, got %+v", s)
	}
}

func TestRefMutTypeAnnotation(t *testing.T) {
	e := singleExpr(t, "fun f(x: &mut i32) -> i32 { x }")
	fn, ok := e.Kind.(*ast.Function)
	if !ok {
		t.Fatalf("want *ast.Function, got %T", e.Kind)
	}
	if len(fn.Params) != 1 {
		t.Fatalf("want 1 param, got %d", len(fn.Params))
	}
	ref, ok := fn.Params[0].TypeAnnotation.Kind.(*ast.RefType)
	if !ok {
		t.Fatalf("want *ast.RefType, got %T", fn.Params[0].TypeAnnotation.Kind)
	}
	if !ref.Mutable {
		t.Fatalf("want mutable ref type")
	}
}
