package visitors

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/parser"
	"github.com/ruchy-lang/ruchy/pkg/source"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	buf, err := source.New("test.ruchy", src)
	require.NoError(t, err)
	file, err := parser.Parse(buf)
	require.NoError(t, err)
	return file
}

func TestDebugPrinterShowsTreeShape(t *testing.T) {
	file := parseFile(t, `fun add(a: i32, b: i32) -> i32 { a + b }
add(1, 2)`)
	p := NewDebugPrinter()
	p.PrintFile(file)
	out := p.String()

	assert.Contains(t, out, "Function add(a, b)")
	assert.Contains(t, out, "Binary +")
	assert.Contains(t, out, "Call")
	assert.Contains(t, out, "Integer 1")
	// Children are indented below their parents.
	assert.Contains(t, out, "  Function add")
}

func TestDebugPrinterMatchArms(t *testing.T) {
	file := parseFile(t, `match x {
	Some(v) => v,
	_ => 0,
}`)
	p := NewDebugPrinter()
	p.PrintFile(file)
	out := p.String()
	assert.Contains(t, out, "Match")
	assert.Contains(t, out, "Arm Some")
	assert.Contains(t, out, "Arm _")
}

func TestFileJSONRoundTrips(t *testing.T) {
	file := parseFile(t, `let x = 1
println(x)`)
	data, err := FileJSON(file)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "test.ruchy", decoded["file"])
	exprs, ok := decoded["exprs"].([]any)
	require.True(t, ok)
	require.Len(t, exprs, 2)
	first := exprs[0].(map[string]any)
	assert.Equal(t, "let", first["node"])
	assert.Equal(t, "x", first["name"])
}

func TestLinterFlagsUnusedBinding(t *testing.T) {
	file := parseFile(t, `fun f() {
	let unused = 1
	let used = 2
	used
}`)
	warnings := NewLinter().LintFile(file)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, `"unused"`)
}

func TestLinterIgnoresUnderscorePrefix(t *testing.T) {
	file := parseFile(t, `fun f() {
	let _scratch = 1
	2
}`)
	warnings := NewLinter().LintFile(file)
	assert.Empty(t, warnings)
}

func TestLinterFlagsDuplicateDeclarations(t *testing.T) {
	file := parseFile(t, `fun f() { 1 }
fun f() { 2 }`)
	warnings := NewLinter().LintFile(file)
	require.NotEmpty(t, warnings)
	found := false
	for _, w := range warnings {
		if strings.Contains(w.Message, "duplicate declaration of fun f") {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", warnings)
}

func TestLinterFlagsUnreachableCode(t *testing.T) {
	file := parseFile(t, `fun f() -> i32 {
	return 1;
	2
}`)
	warnings := NewLinter().LintFile(file)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "unreachable")
}

func TestLinterFlagsImpreciseFloatLiteral(t *testing.T) {
	file := parseFile(t, `let x = 0.10000000000000000001
println(x)`)
	warnings := NewLinter().LintFile(file)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "not exactly representable as f64")
}

func TestLinterAcceptsExactFloatLiterals(t *testing.T) {
	file := parseFile(t, `let x = 99.99
let y = 0.5
println(x + y)`)
	warnings := NewLinter().LintFile(file)
	assert.Empty(t, warnings)
}

func TestLinterCleanFileHasNoWarnings(t *testing.T) {
	file := parseFile(t, `fun add(a: i32, b: i32) -> i32 { a + b }
println(add(1, 2))`)
	warnings := NewLinter().LintFile(file)
	assert.Empty(t, warnings)
}
