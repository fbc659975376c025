package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/ruchyerr"
	"github.com/ruchy-lang/ruchy/pkg/assembler"
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/parser"
	"github.com/ruchy-lang/ruchy/pkg/source"
)

// Exit codes: 0 success, 1 user error, 2 internal error.
const (
	ExitCodeOK       = 0
	ExitCodeUser     = 1
	ExitCodeInternal = 2
)

// ExitCode maps an error from Execute to the process exit code. Lex/parse/
// lowering diagnostics and I/O problems with user-named files are user
// errors; an internal invariant violation is the only thing that earns 2.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var single *ruchyerr.Error
	if errors.As(err, &single) {
		if single.Kind == ruchyerr.Internal {
			return ExitCodeInternal
		}
		return ExitCodeUser
	}
	var list ruchyerr.List
	if errors.As(err, &list) {
		for _, e := range list {
			if e.Kind == ruchyerr.Internal {
				return ExitCodeInternal
			}
		}
		return ExitCodeUser
	}
	if os.IsNotExist(err) || os.IsPermission(err) {
		return ExitCodeUser
	}
	return ExitCodeUser
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// checkSourceExt validates the file extension.
func checkSourceExt(path string) error {
	if strings.HasSuffix(path, ".ruchy") || strings.HasSuffix(path, ".rchy") {
		return nil
	}
	return fmt.Errorf("%s: source files must use the .ruchy or .rchy extension", path)
}

// loadBuffer reads and normalizes one source file.
func loadBuffer(path string) (*source.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.New(path, string(data))
}

// parsePath parses one file, returning the tree, its buffer for
// diagnostics, and any error.
func parsePath(path string) (*ast.File, *source.Buffer, error) {
	if err := checkSourceExt(path); err != nil {
		return nil, nil, err
	}
	buf, err := loadBuffer(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := parser.Parse(buf)
	return f, buf, err
}

// parseSnippet parses source given on the command line (-e).
func parseSnippet(code string) (*ast.File, *source.Buffer, error) {
	buf, err := source.New("<eval>", code)
	if err != nil {
		return nil, nil, err
	}
	f, err := parser.Parse(buf)
	return f, buf, err
}

// transpileFile runs the full front-end + assembly pipeline on one file.
func transpileFile(path string, script bool) (string, error) {
	f, _, err := parsePath(path)
	if err != nil {
		return "", err
	}
	return assembler.Assemble(f, assembler.Options{Script: script})
}

// renderDiagnostics prints err's diagnostics with line/column positions
// resolved against buf (which may be nil for I/O errors).
func renderDiagnostics(buf *source.Buffer, err error) {
	var list ruchyerr.List
	if errors.As(err, &list) {
		for _, e := range list {
			renderOne(buf, e)
		}
		return
	}
	var single *ruchyerr.Error
	if errors.As(err, &single) {
		renderOne(buf, single)
		return
	}
	printError("%v", err)
}

func renderOne(buf *source.Buffer, e *ruchyerr.Error) {
	if buf == nil {
		printError("%v", e)
		return
	}
	line, col := buf.LineCol(e.Span.Start)
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", buf.Name, line, col, e.Kind, e.Message)
}
