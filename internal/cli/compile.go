package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Transpile a Ruchy file and build a native binary with the host Rust compiler",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "a.out", "path of the produced binary")
	_ = compileCmd.MarkFlagRequired("output")
}

func runCompile(cmd *cobra.Command, args []string) error {
	rust, err := transpileFile(args[0], false)
	if err != nil {
		buf, loadErr := loadBuffer(args[0])
		if loadErr != nil {
			buf = nil
		}
		renderDiagnostics(buf, err)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return rustcBuild(rust, compileOutput, cfg.Edition)
}

// rustcBuild writes rust source to a scratch file and invokes the host
// rustc; only the requested binary survives.
func rustcBuild(rust, output, edition string) error {
	tmp, err := os.MkdirTemp("", "ruchy-build-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	srcPath := filepath.Join(tmp, "main.rs")
	if err := os.WriteFile(srcPath, []byte(rust), 0644); err != nil {
		return err
	}

	abs, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	c := exec.Command("rustc", "--edition", edition, srcPath, "-o", abs)
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("rustc failed: %w", err)
	}
	printVerbose("built %s", output)
	return nil
}
