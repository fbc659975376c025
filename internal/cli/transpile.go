package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/internal/cache"
)

var transpileOutput string

var transpileCmd = &cobra.Command{
	Use:   "transpile <file>",
	Short: "Emit Rust source for a Ruchy file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranspile,
}

func init() {
	transpileCmd.Flags().StringVarP(&transpileOutput, "output", "o", "", "write Rust source to this file instead of stdout")
}

func runTranspile(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// File output goes through the emission ledger: if this exact source
	// already produced this exact artifact, there is nothing to do.
	// Stdout output always regenerates.
	var ledger *cache.Cache
	if transpileOutput != "" {
		ledger = cache.Open(cfg.CachePath)
		if ledger.UpToDate(path, transpileOutput) {
			printVerbose("unchanged since last run, keeping %s", transpileOutput)
			return nil
		}
	}

	rust, err := transpileFile(path, false)
	if err != nil {
		buf, loadErr := loadBuffer(path)
		if loadErr != nil {
			buf = nil
		}
		renderDiagnostics(buf, err)
		return err
	}

	if transpileOutput == "" {
		fmt.Print(rust)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(transpileOutput), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(transpileOutput, []byte(rust), 0644); err != nil {
		return err
	}
	if err := ledger.Record(path, transpileOutput); err == nil {
		_ = ledger.Flush()
	}
	printVerbose("wrote %s", transpileOutput)
	return nil
}
