package cli

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/pkg/assembler"
	"github.com/ruchy-lang/ruchy/pkg/ast"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a Ruchy program",
	Long: `Execute a Ruchy program and print the value of its final expression.

The program is lowered through the same transpilation pipeline as
'ruchy compile'; the intermediate binary lives in a scratch directory
and is removed when the run finishes, so no artifacts are left behind.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	f, buf, err := parsePath(args[0])
	if err != nil {
		renderDiagnostics(buf, err)
		return err
	}
	return executeFile(f)
}

// runEval implements `ruchy -e <code>`: parse the snippet and execute it,
// printing the value when non-unit.
func runEval(code string) error {
	f, buf, err := parseSnippet(code)
	if err != nil {
		renderDiagnostics(buf, err)
		return err
	}
	return executeFile(f)
}

// executeFile assembles f in script mode (result printing on), builds it
// in a scratch directory, runs it, and cleans up.
func executeFile(f *ast.File) error {
	rust, err := assembler.Assemble(f, assembler.Options{Script: true})
	if err != nil {
		renderDiagnostics(nil, err)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", "ruchy-run-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	bin := filepath.Join(tmp, "program")
	if err := rustcBuild(rust, bin, cfg.Edition); err != nil {
		return err
	}

	c := exec.Command(bin)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin
	return c.Run()
}
