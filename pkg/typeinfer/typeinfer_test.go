package typeinfer

import (
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/parser"
	"github.com/ruchy-lang/ruchy/pkg/source"
)

func parseFunc(t *testing.T, src string) *ast.Function {
	t.Helper()
	buf, err := source.New("test.ruchy", src)
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	file, err := parser.Parse(buf)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if len(file.Exprs) != 1 {
		t.Fatalf("want 1 top-level expr, got %d", len(file.Exprs))
	}
	fn, ok := file.Exprs[0].Kind.(*ast.Function)
	if !ok {
		t.Fatalf("want *ast.Function, got %T", file.Exprs[0].Kind)
	}
	return fn
}

func typePath(t *ast.Type) string {
	if t == nil {
		return ""
	}
	if nt, ok := t.Kind.(*ast.NamedType); ok {
		return nt.Path
	}
	return ""
}

func TestInferParamTypeArithmeticIsNumeric(t *testing.T) {
	fn := parseFunc(t, "fun add(x, y) { x + y }")
	InferFunction(fn)
	for _, p := range fn.Params {
		if got := typePath(p.TypeAnnotation); got != "i32" {
			t.Errorf("param %s: want i32, got %s", p.Name, got)
		}
	}
	if got := typePath(fn.ReturnType); got != "i32" {
		t.Errorf("return type: want i32, got %s", got)
	}
}

func TestInferParamTypeStringConcat(t *testing.T) {
	fn := parseFunc(t, `fun greet(name) { "hello " + name }`)
	InferFunction(fn)
	if got := typePath(fn.Params[0].TypeAnnotation); got != "String" {
		t.Errorf("want String, got %s", got)
	}
}

func TestInferParamTypeCallTarget(t *testing.T) {
	fn := parseFunc(t, "fun apply(f) { f() }")
	InferFunction(fn)
	if got := typePath(fn.Params[0].TypeAnnotation); got != "impl Fn" {
		t.Errorf("want impl Fn, got %s", got)
	}
}

func TestInferParamTypeDefaultsToDisplay(t *testing.T) {
	fn := parseFunc(t, "fun show(x) { x }")
	InferFunction(fn)
	if got := typePath(fn.Params[0].TypeAnnotation); got != "impl std::fmt::Display" {
		t.Errorf("want impl std::fmt::Display, got %s", got)
	}
}

func TestInferReturnTypeFromParam(t *testing.T) {
	fn := parseFunc(t, "fun identity(x: i32) { x }")
	InferFunction(fn)
	if got := typePath(fn.ReturnType); got != "i32" {
		t.Errorf("want i32, got %s", got)
	}
}

func TestInferReturnTypeUnitForSideEffectOnly(t *testing.T) {
	fn := parseFunc(t, `fun log(x: i32) { println(x) }`)
	InferFunction(fn)
	if fn.ReturnType != nil {
		t.Errorf("want nil (unit) return type, got %v", typePath(fn.ReturnType))
	}
}

func TestInferSkipsExplicitAnnotations(t *testing.T) {
	fn := parseFunc(t, "fun f(x: f64) -> f64 { x }")
	before := fn.Params[0].TypeAnnotation
	InferFunction(fn)
	if fn.Params[0].TypeAnnotation != before {
		t.Errorf("explicit param annotation must not be overwritten")
	}
}

func TestMainNeverGetsReturnType(t *testing.T) {
	fn := parseFunc(t, `fun main() { 1 }`)
	InferFunction(fn)
	if fn.ReturnType != nil {
		t.Errorf("main must never receive an inferred return type, got %v", typePath(fn.ReturnType))
	}
}

func TestFormatFloatLiteralPreservesDigits(t *testing.T) {
	if got := FormatFloatLiteral("99.99", ""); got != "99.99_f64" {
		t.Errorf("want 99.99_f64, got %s", got)
	}
	if got := FormatFloatLiteral("1.0", "f32"); got != "1.0f32" {
		t.Errorf("want 1.0f32, got %s", got)
	}
}

func TestFormatFloatLiteralKeepsDigitSeparators(t *testing.T) {
	// `_` separators are legal in both languages and must not cost the
	// literal its suffix.
	if got := FormatFloatLiteral("1_000.5", ""); got != "1_000.5_f64" {
		t.Errorf("want 1_000.5_f64, got %s", got)
	}
	if got := FormatFloatLiteral("1_000.5", "f32"); got != "1_000.5f32" {
		t.Errorf("want 1_000.5f32, got %s", got)
	}
}

func TestFormatIntegerLiteralDefaultsToI32(t *testing.T) {
	if got := FormatIntegerLiteral("42", ""); got != "42_i32" {
		t.Errorf("want 42_i32, got %s", got)
	}
	if got := FormatIntegerLiteral("42", "u64"); got != "42u64" {
		t.Errorf("want 42u64, got %s", got)
	}
}
