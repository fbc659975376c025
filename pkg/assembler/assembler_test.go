package assembler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/parser"
	"github.com/ruchy-lang/ruchy/pkg/source"
)

func assemble(t *testing.T, src string, opts Options) string {
	t.Helper()
	buf, err := source.New("test.ruchy", src)
	require.NoError(t, err)
	file, err := parser.Parse(buf)
	require.NoError(t, err)
	out, err := Assemble(file, opts)
	require.NoError(t, err)
	return out
}

func TestDeclarationsPartitionedOutOfMain(t *testing.T) {
	out := assemble(t, `struct Point { x: i32, y: i32 }
fun dist(p: Point) -> i32 { p.x + p.y }
let p = Point { x: 1, y: 2 }
println(dist(p))`, Options{})

	mainIdx := strings.Index(out, "fn main()")
	require.GreaterOrEqual(t, mainIdx, 0)
	assert.Less(t, strings.Index(out, "struct Point"), mainIdx)
	assert.Less(t, strings.Index(out, "fn dist"), mainIdx)
	assert.Greater(t, strings.Index(out, "let p"), mainIdx)
}

func TestMainHasNoReturnType(t *testing.T) {
	out := assemble(t, "fun main() { 42 }", Options{})
	assert.Contains(t, out, "fn main() {")
	assert.NotContains(t, out, "fn main() ->")
}

func TestUserMainWinsAndHelperIsCalled(t *testing.T) {
	out := assemble(t, `println("setup")
fun main() { println("body") }`, Options{})

	assert.Contains(t, out, "fn __ruchy_main() {")
	assert.Contains(t, out, `println!("setup");`)

	mainIdx := strings.Index(out, "fn main() {")
	require.GreaterOrEqual(t, mainIdx, 0)
	callIdx := strings.Index(out, "__ruchy_main();")
	require.GreaterOrEqual(t, callIdx, 0)
	assert.Greater(t, callIdx, mainIdx, "helper call is inside main")
	assert.Less(t, callIdx, strings.Index(out, `println!("body")`), "helper runs before user statements")
}

func TestNoHelperWithoutStraySatements(t *testing.T) {
	out := assemble(t, "fun main() { println(1) }", Options{})
	assert.NotContains(t, out, "__ruchy_main")
}

func TestScriptModeHasExactlyOneResultPrinter(t *testing.T) {
	// Exactly one centralized type-name match prints the result.
	out := assemble(t, `let price = 99.99
let tax = 0.08
price * (1.0 + tax)`, Options{Script: true})

	assert.Equal(t, 1, strings.Count(out, "type_name_of_val"))
	assert.Contains(t, out, `"()" => {}`)
	assert.Contains(t, out, "price * (1.0_f64 + tax)")
}

func TestTranspileModeHasNoResultPrinter(t *testing.T) {
	out := assemble(t, "1 + 2", Options{})
	assert.NotContains(t, out, "type_name_of_val")
}

func TestScriptModeSkipsPrintlnTail(t *testing.T) {
	// A trailing println is already a side effect; wrapping it would
	// print the unit value.
	out := assemble(t, `println("done")`, Options{Script: true})
	assert.NotContains(t, out, "type_name_of_val")
}

func TestTopLevelMutableLetBecomesLockedGlobal(t *testing.T) {
	out := assemble(t, `let mut counter = 0
counter = counter + 1
println(counter)`, Options{})

	assert.Contains(t, out, "static counter: std::sync::LazyLock<std::sync::Mutex<i32>>")
	assert.Contains(t, out, "*counter.lock().unwrap() = *counter.lock().unwrap() + 1_i32")
	assert.Contains(t, out, `println!("{}", *counter.lock().unwrap())`)
}

func TestImmutableTopLevelLetStaysInMain(t *testing.T) {
	out := assemble(t, "let x = 1\nprintln(x)", Options{})
	assert.NotContains(t, out, "static x")
	assert.Contains(t, out, "let x = 1_i32;")
}

func TestMatchProgramHasNoStraySemicolons(t *testing.T) {
	out := assemble(t, `let number = 2
match number {
	1 => println("One"),
	2 => println("Two"),
	_ => println("Other"),
}`, Options{})
	assert.NotContains(t, out, " ; ;")
	assert.Contains(t, out, `2_i32 => println!("Two"),`)
}

func TestLineEndingIndependence(t *testing.T) {
	// P8: CRLF input emits byte-identical Rust.
	unix := "let x = 1\nprintln(x)\n"
	dos := "let x = 1\r\nprintln(x)\r\n"
	assert.Equal(t, assemble(t, unix, Options{}), assemble(t, dos, Options{}))
}

func TestNestedFunctionGetsInference(t *testing.T) {
	out := assemble(t, `fun main() {
	fun square(x: f64) { x * x }
	println("{}", square(3.0))
}`, Options{})
	assert.Contains(t, out, "fn square(x: f64) -> f64")
}

func TestAssembleIsPureOverTheTree(t *testing.T) {
	buf, err := source.New("test.ruchy", "fun f(x: i32) -> i32 { x }\nf(1)")
	require.NoError(t, err)
	file, err := parser.Parse(buf)
	require.NoError(t, err)

	first, err := Assemble(file, Options{})
	require.NoError(t, err)
	second, err := Assemble(file, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProducesValueClassification(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"1 + 2", true},
		{"let x = 1", false},
		{`println("x")`, false},
		{"while true { }", false},
		{"f(1)", true},
	}
	for _, c := range cases {
		buf, err := source.New("t.ruchy", c.src)
		require.NoError(t, err)
		file, err := parser.Parse(buf)
		require.NoError(t, err)
		require.Len(t, file.Exprs, 1)
		assert.Equal(t, c.want, producesValue(file.Exprs[0]), "source %q", c.src)
	}
}

func TestBlockLikeThenTupleIsNotACall(t *testing.T) {
	// `loop { break } (1, 2)` assembles to two
	// statements, the second a tuple, not an invocation.
	buf, err := source.New("t.ruchy", "loop { break } (1, 2)")
	require.NoError(t, err)
	file, err := parser.Parse(buf)
	require.NoError(t, err)
	require.Len(t, file.Exprs, 2)
	_, isLoop := file.Exprs[0].Kind.(*ast.Loop)
	_, isTuple := file.Exprs[1].Kind.(*ast.TupleLiteral)
	assert.True(t, isLoop)
	assert.True(t, isTuple)
}
