package transpiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/parser"
	"github.com/ruchy-lang/ruchy/pkg/source"
)

func parseOne(t *testing.T, src string) *ast.Expr {
	t.Helper()
	buf, err := source.New("test.ruchy", src)
	require.NoError(t, err)
	file, err := parser.Parse(buf)
	require.NoError(t, err, "parse %q", src)
	require.Len(t, file.Exprs, 1, "want a single top-level expression in %q", src)
	return file.Exprs[0]
}

// exprRust lowers a single expression and strips the statement semicolon.
func exprRust(t *testing.T, src string) string {
	t.Helper()
	tr := New()
	out, err := tr.EmitStatement(parseOne(t, src))
	require.NoError(t, err)
	return strings.TrimSuffix(out, ";")
}

// itemRust lowers a single top-level declaration, running inference first
// the way the assembler does.
func itemRust(t *testing.T, src string) string {
	t.Helper()
	e := parseOne(t, src)
	if fn, ok := e.Kind.(*ast.Function); ok {
		PrepareFunction(fn)
	}
	tr := New()
	out, err := tr.EmitItem(e)
	require.NoError(t, err)
	return out
}

func TestIntegerLiteralDefaultsToI32(t *testing.T) {
	assert.Equal(t, "42_i32", exprRust(t, "42"))
	assert.Equal(t, "42u64", exprRust(t, "42u64"))
}

func TestFloatLiteralKeepsDigits(t *testing.T) {
	assert.Equal(t, "99.99_f64", exprRust(t, "99.99"))
}

func TestPrecedenceParensPreserved(t *testing.T) {
	// P4/P5: grouping against natural precedence keeps explicit parens.
	out := exprRust(t, "price * (1.0 + tax)")
	assert.Equal(t, "price * (1.0_f64 + tax)", out)
}

func TestLeftAssociativeNoSpuriousParens(t *testing.T) {
	assert.Equal(t, "1_i32 + 2_i32 + 3_i32", exprRust(t, "1 + 2 + 3"))
}

func TestRightGroupedSubtractionKeepsParens(t *testing.T) {
	assert.Equal(t, "1_i32 - (2_i32 - 3_i32)", exprRust(t, "1 - (2 - 3)"))
}

func TestReservedKeywordIdentifierEscaped(t *testing.T) {
	// P7: Rust keywords that are plain identifiers in Ruchy get r#.
	out := exprRust(t, "let move = 5")
	assert.Contains(t, out, "r#move")
}

func TestSelfNeverRawEscaped(t *testing.T) {
	out := itemRust(t, `class Counter {
	count: i32
	fun get(&self) -> i32 { self.count }
}`)
	assert.Contains(t, out, "self.count")
	assert.NotContains(t, out, "r#self")
}

func TestStringConcatBecomesFormat(t *testing.T) {
	out := exprRust(t, `"hello " + name`)
	assert.Equal(t, `format!("hello {}", name)`, out)
}

func TestFStringLowersToFormat(t *testing.T) {
	out := exprRust(t, `f"Hello {name}!"`)
	assert.Equal(t, `format!("Hello {}!", name)`, out)
}

func TestFStringLiteralBraces(t *testing.T) {
	out := exprRust(t, `f"{{x}} is {x}"`)
	assert.Equal(t, `format!("{{x}} is {}", x)`, out)
}

func TestPrintlnSpaceSeparatesArguments(t *testing.T) {
	out := exprRust(t, `println("Hello", "World")`)
	assert.Equal(t, `println!("Hello World")`, out)
}

func TestPrintlnSingleLiteralVerbatim(t *testing.T) {
	assert.Equal(t, `println!("hi")`, exprRust(t, `println("hi")`))
}

func TestPrintlnKeepsExplicitFormatString(t *testing.T) {
	out := exprRust(t, `println("{}", x)`)
	assert.Equal(t, `println!("{}", x)`, out)
}

func TestPrintlnMacroSpellingEquivalent(t *testing.T) {
	assert.Equal(t, exprRust(t, `println("a", x)`), exprRust(t, `println!("a", x)`))
}

func TestPrintlnMixedArguments(t *testing.T) {
	out := exprRust(t, `println("count:", n)`)
	assert.Equal(t, `println!("count: {}", n)`, out)
}

func TestCompoundAssignmentVerbatim(t *testing.T) {
	assert.Equal(t, "x += 1_i32", exprRust(t, "x += 1"))
	assert.Equal(t, "a[0_i32 as usize] *= 2_i32", exprRust(t, "a[0] *= 2"))
	assert.Equal(t, "p.x.y -= 1_i32", exprRust(t, "p.x.y -= 1"))
}

func TestMatchLowering(t *testing.T) {
	out := exprRust(t, `match x {
	1 => "one",
	2 | 3 => "few",
	n if n < 10 => "some",
	_ => "many",
}`)
	assert.Contains(t, out, "match x {")
	assert.Contains(t, out, `1_i32 => "one",`)
	assert.Contains(t, out, `2_i32 | 3_i32 => "few",`)
	assert.Contains(t, out, `n if n < 10_i32 => "some",`)
	assert.Contains(t, out, `_ => "many",`)
}

func TestMatchResultPatterns(t *testing.T) {
	out := exprRust(t, `match r {
	Ok(v) => v,
	Err(e) => 0,
}`)
	assert.Contains(t, out, "Ok(v) => v,")
	assert.Contains(t, out, "Err(e) => 0_i32,")
}

func TestRangePatterns(t *testing.T) {
	out := exprRust(t, `match n {
	0..=9 => "digit",
	_ => "no",
}`)
	assert.Contains(t, out, "0_i32..=9_i32 =>")
}

func TestTryOperatorPostfix(t *testing.T) {
	assert.Equal(t, "might_fail()?", exprRust(t, "might_fail()?"))
}

func TestAwaitPostfix(t *testing.T) {
	assert.Equal(t, "fetch().await", exprRust(t, "await fetch()"))
}

func TestAsyncFunction(t *testing.T) {
	out := itemRust(t, "async fun go() { fetch().await }")
	assert.Contains(t, out, "async fn go()")
}

func TestForRangeLowering(t *testing.T) {
	out := exprRust(t, "for i in range(0, 5) { println(i) }")
	assert.Contains(t, out, "for i in 0_i32..5_i32 {")
}

func TestSliceLowering(t *testing.T) {
	out := exprRust(t, "a[1:3]")
	assert.Equal(t, "&a[1_i32 as usize..3_i32 as usize]", out)
}

func TestStringKeyIndexLowering(t *testing.T) {
	out := exprRust(t, `m["k"]`)
	assert.Contains(t, out, `m.get("k").cloned().unwrap_or_else(`)
}

func TestNumericIndexLowering(t *testing.T) {
	assert.Equal(t, "v[i as usize]", exprRust(t, "v[i]"))
}

func TestObjectLiteralInsertionOrder(t *testing.T) {
	out := exprRust(t, `{"b": 1, "a": 2}`)
	bIdx := strings.Index(out, `"b"`)
	aIdx := strings.Index(out, `"a"`)
	require.GreaterOrEqual(t, bIdx, 0)
	require.GreaterOrEqual(t, aIdx, 0)
	assert.Less(t, bIdx, aIdx, "insertion order must be preserved")
	assert.Contains(t, out, "std::collections::HashMap::new()")
}

func TestListLiteralIsVec(t *testing.T) {
	assert.Equal(t, "vec![1_i32, 2_i32, 3_i32]", exprRust(t, "[1, 2, 3]"))
}

func TestFixedArrayAnnotationKeepsArrayForm(t *testing.T) {
	out := exprRust(t, "let a: [i32; 3] = [1, 2, 3]")
	assert.Contains(t, out, "= [1_i32, 2_i32, 3_i32]")
	assert.NotContains(t, out, "vec!")
}

func TestListComprehensionChain(t *testing.T) {
	out := exprRust(t, "[x * 2 for x in xs if x > 0]")
	assert.Contains(t, out, "xs.into_iter()")
	assert.Contains(t, out, ".filter(|x| x > 0_i32)")
	assert.Contains(t, out, ".map(|x| x * 2_i32)")
	assert.Contains(t, out, ".collect::<Vec<_>>()")
}

func TestNestedComprehensionUsesFlatMap(t *testing.T) {
	out := exprRust(t, "[x + y for x in xs for y in ys]")
	assert.Contains(t, out, ".flat_map(move |x| ys.into_iter()")
}

func TestDictComprehensionCollectsHashMap(t *testing.T) {
	out := exprRust(t, "{k: v * 2 for k, v in pairs}")
	assert.Contains(t, out, ".collect::<std::collections::HashMap<_, _>>()")
}

func TestVecMacroPassesThrough(t *testing.T) {
	assert.Equal(t, "vec![1_i32, 2_i32]", exprRust(t, "vec![1, 2]"))
}

func TestSqlMacroPreservesDelimiter(t *testing.T) {
	out := exprRust(t, "sql!{ x }")
	assert.Equal(t, "sql!{x}", out)
}

func TestEmptyMacroInvocation(t *testing.T) {
	assert.Equal(t, "df!()", exprRust(t, "df!()"))
}

func TestMathBuiltinRewrites(t *testing.T) {
	assert.Equal(t, "(x as f64).sqrt()", exprRust(t, "sqrt(x)"))
	assert.Equal(t, "(a as f64).powf(b as f64)", exprRust(t, "pow(a, b)"))
	assert.Equal(t, "std::cmp::min(a, b)", exprRust(t, "min(a, b)"))
	assert.Equal(t, "(1.5_f64 as f64).max(b as f64)", exprRust(t, "max(1.5, b)"))
	assert.Equal(t, "(x as f64).floor()", exprRust(t, "floor(x)"))
	assert.Equal(t, "(x as f64).sqrt()", exprRust(t, "std::math::sqrt(x)"))
}

func TestCommandRewrite(t *testing.T) {
	// P20: the curated std::process surface.
	out := exprRust(t, `Command::new("echo").arg("x").output()`)
	assert.Equal(t, `std::process::Command::new("echo").arg("x").output()`, out)
}

func TestStdPathsPassThrough(t *testing.T) {
	out := exprRust(t, `std::fs::read_to_string("f.txt")`)
	assert.Equal(t, `std::fs::read_to_string("f.txt")`, out)
}

func TestLetStringAnnotationWrapsLiteral(t *testing.T) {
	out := exprRust(t, `let name: String = "Alice"`)
	assert.Equal(t, `let name: String = "Alice".to_string()`, out)
}

func TestRefStrParamDoesNotWrap(t *testing.T) {
	out := itemRust(t, `fun greet(name: &str) { println(name) }`)
	assert.Contains(t, out, "fn greet(name: &str)")
}

func TestFunctionReturnTypeInferred(t *testing.T) {
	out := itemRust(t, "fun square(x: f64) { x * x }")
	assert.Contains(t, out, "fn square(x: f64) -> f64")
}

func TestMainNeverGetsReturnType(t *testing.T) {
	out := itemRust(t, "fun main() { 42 }")
	assert.Contains(t, out, "fn main()")
	assert.NotContains(t, out, "fn main() ->")
}

func TestEarlyReturnEmitted(t *testing.T) {
	out := itemRust(t, "fun safe_divide(a: i32, b: i32) -> i32 { if b == 0 { return 0 } a / b }")
	assert.Contains(t, out, "return 0_i32")
	assert.Contains(t, out, "a / b")
}

func TestStructEmission(t *testing.T) {
	out := itemRust(t, `struct Point {
	x: i32,
	y: i32,
}`)
	assert.Contains(t, out, "struct Point {")
	assert.Contains(t, out, "x: i32,")
	assert.Contains(t, out, "y: i32,")
}

func TestStructWithStrFieldGetsLifetime(t *testing.T) {
	out := itemRust(t, `struct Name {
	value: &str,
}`)
	assert.Contains(t, out, "struct Name<'a> {")
	assert.Contains(t, out, "value: &'a str,")
}

func TestPubCrateVisibility(t *testing.T) {
	out := itemRust(t, `pub(crate) struct Inner {
	pub(crate) x: i32,
}`)
	assert.Contains(t, out, "pub(crate) struct Inner")
	assert.Contains(t, out, "pub(crate) x: i32,")
}

func TestEnumVariants(t *testing.T) {
	out := itemRust(t, `enum Shape {
	Circle(f64),
	Rect { w: f64, h: f64 },
	Empty,
}`)
	assert.Contains(t, out, "enum Shape {")
	assert.Contains(t, out, "Circle(f64),")
	assert.Contains(t, out, "Rect { w: f64, h: f64 },")
	assert.Contains(t, out, "Empty,")
}

func TestClassLowersToStructAndImpl(t *testing.T) {
	out := itemRust(t, `class Counter {
	count: i32
	fun new() { self.count = 0 }
	fun inc(&mut self) { self.count += 1 }
	static fun origin() -> i32 { 0 }
}`)
	assert.Contains(t, out, "struct Counter {")
	assert.Contains(t, out, "impl Counter {")
	assert.Contains(t, out, "pub fn new() -> Self {")
	assert.Contains(t, out, "count: 0_i32,")
	assert.Contains(t, out, "fn inc(&mut self)")
	assert.Contains(t, out, "self.count += 1_i32")
	// Static methods drop the receiver entirely.
	assert.Contains(t, out, "fn origin() -> i32")
	assert.NotContains(t, out, "origin(&self")
}

func TestClassInheritanceFlattensFields(t *testing.T) {
	buf, err := source.New("test.ruchy", `class Animal {
	name: String
}
class Dog : Animal {
	breed: String
	fun describe(&self) -> String { self.name + " " + self.breed }
}`)
	require.NoError(t, err)
	file, err := parser.Parse(buf)
	require.NoError(t, err)

	tr := New()
	tr.RegisterClasses(file)
	out, err := tr.EmitItem(file.Exprs[1])
	require.NoError(t, err)

	nameIdx := strings.Index(out, "name: String")
	breedIdx := strings.Index(out, "breed: String")
	require.GreaterOrEqual(t, nameIdx, 0, "parent field must be flattened in")
	require.GreaterOrEqual(t, breedIdx, 0)
	assert.Less(t, nameIdx, breedIdx, "parent fields come first")
	assert.NotContains(t, out, "animal:", "no embedded parent field is synthesized")
}

func TestOverrideIsMarkerOnly(t *testing.T) {
	out := itemRust(t, `class Cat {
	override fun speak(&self) -> String { "meow" }
}`)
	assert.Contains(t, out, "fn speak(&self) -> String")
	assert.NotContains(t, out, "override")
}

func TestTraitWithAssociatedType(t *testing.T) {
	out := itemRust(t, `trait Container<T> {
	type Item
	fun get(&self, i: i32) -> i32
	fun describe(&self) -> String { "container" }
}`)
	assert.Contains(t, out, "trait Container<T> {")
	assert.Contains(t, out, "type Item;")
	assert.Contains(t, out, "fn get(&self, i: i32) -> i32;")
	assert.Contains(t, out, `fn describe(&self) -> String {`)
}

func TestImplTraitForType(t *testing.T) {
	out := itemRust(t, `impl Greet for Person {
	fun hello(&self) -> String { "hi" }
}`)
	assert.Contains(t, out, "impl Greet for Person {")
	assert.Contains(t, out, "fn hello(&self) -> String")
}

func TestUseStatementForms(t *testing.T) {
	assert.Equal(t, "use std::fs;", itemRust(t, "use std::fs"))
	assert.Equal(t, "use std::collections::{HashMap, HashSet};", itemRust(t, "use std::collections::{HashMap, HashSet}"))
	assert.Equal(t, "use std::io::*;", itemRust(t, "use std::io::*"))
}

func TestTupleEmission(t *testing.T) {
	assert.Equal(t, "(1_i32, 2_i32)", exprRust(t, "(1, 2)"))
	assert.Equal(t, "t.0", exprRust(t, "t.0"))
}

func TestGlobalReadAndWriteGoThroughLock(t *testing.T) {
	tr := New()
	tr.MarkGlobal("counter")

	read, err := tr.EmitStatement(parseOne(t, "counter + 1"))
	require.NoError(t, err)
	assert.Contains(t, read, "*counter.lock().unwrap() + 1_i32")

	write, err := tr.EmitStatement(parseOne(t, "counter = 5"))
	require.NoError(t, err)
	assert.Contains(t, write, "*counter.lock().unwrap() = 5_i32")
}

func TestNoDebugLeakInOutput(t *testing.T) {
	// Emission must never contain AST debug text.
	sources := []string{
		"1 + 2 * 3",
		`println("x")`,
		"match x { _ => 0 }",
		"[x for x in xs]",
		`let s = f"v={v}"`,
	}
	for _, src := range sources {
		out := exprRust(t, src)
		for _, leak := range []string{"Expr {", "Call {", "kind:"} {
			assert.NotContains(t, out, leak, "source %q", src)
		}
	}
}

func TestTranspilerTotalOverParserOutput(t *testing.T) {
	// P2 in miniature: every parse of these strings transpiles without
	// panic; errors are fine, panics are not.
	sources := []string{
		"", "1", "x", "((((", "let", `f"{`, "fun f() { }",
		"a.b.c.d", "x?", "-x", "!x", "{1, 2}", "{}", "loop { }",
	}
	for _, src := range sources {
		buf, err := source.New("fuzz.ruchy", src)
		require.NoError(t, err)
		file, err := parser.Parse(buf)
		if err != nil || file == nil {
			continue
		}
		tr := New()
		for _, e := range file.Exprs {
			_, _ = tr.EmitStatement(e) // must not panic
		}
	}
}
