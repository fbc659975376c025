package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/internal/ruchyerr"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitCodeOK, ExitCode(nil))
	assert.Equal(t, ExitCodeUser, ExitCode(ruchyerr.New(ruchyerr.Parse, token.Span{}, "bad")))
	assert.Equal(t, ExitCodeUser, ExitCode(ruchyerr.List{ruchyerr.New(ruchyerr.Lex, token.Span{}, "bad")}))
	assert.Equal(t, ExitCodeInternal, ExitCode(ruchyerr.New(ruchyerr.Internal, token.Span{}, "bug")))
	assert.Equal(t, ExitCodeUser, ExitCode(errors.New("anything else")))
}

func TestCheckSourceExt(t *testing.T) {
	assert.NoError(t, checkSourceExt("main.ruchy"))
	assert.NoError(t, checkSourceExt("main.rchy"))
	assert.Error(t, checkSourceExt("main.rs"))
}

func TestParsePathValidSource(t *testing.T) {
	path := writeSource(t, "ok.ruchy", "let x = 1\nprintln(x)")
	f, buf, err := parsePath(path)
	require.NoError(t, err)
	require.NotNil(t, buf)
	assert.Len(t, f.Exprs, 2)
}

func TestParsePathSyntaxError(t *testing.T) {
	path := writeSource(t, "bad.ruchy", "fun broken( {")
	_, _, err := parsePath(path)
	require.Error(t, err)
	assert.Equal(t, ExitCodeUser, ExitCode(err))
}

func TestParsePathCRLFSource(t *testing.T) {
	path := writeSource(t, "dos.ruchy", "let x = 1\r\nprintln(x)\r\n")
	f, _, err := parsePath(path)
	require.NoError(t, err)
	assert.Len(t, f.Exprs, 2)
}

func TestTranspileFileEmitsRust(t *testing.T) {
	path := writeSource(t, "prog.ruchy", `fun main() { println("hi") }`)
	rust, err := transpileFile(path, false)
	require.NoError(t, err)
	assert.Contains(t, rust, "fn main()")
	assert.Contains(t, rust, `println!("hi")`)
}

func TestParseSnippet(t *testing.T) {
	f, _, err := parseSnippet("1 + 2")
	require.NoError(t, err)
	assert.Len(t, f.Exprs, 1)
}

func TestExpandGlobsPassesPlainPaths(t *testing.T) {
	paths, err := expandGlobs([]string{"a.ruchy", "b.rchy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ruchy", "b.rchy"}, paths)
}

func TestExpandGlobsMatchesPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.ruchy"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.ruchy"), []byte("2"), 0644))
	t.Chdir(dir)

	paths, err := expandGlobs([]string{"**/*.ruchy"})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestExpandGlobsRejectsEmptyMatch(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := expandGlobs([]string{"**/*.ruchy"})
	assert.Error(t, err)
}
