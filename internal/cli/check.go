package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse a source file and report whether its syntax is valid",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit a machine-readable {\"valid\": …} result")
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, buf, err := parsePath(args[0])

	if checkJSON {
		return emitCheckJSON(err)
	}

	if err != nil {
		renderDiagnostics(buf, err)
		return err
	}
	fmt.Println("✓ Syntax is valid")
	return nil
}

// emitCheckJSON prints the tooling-facing result; the error (if any) is
// folded into the JSON body, so the command's own error return only
// signals the exit code.
func emitCheckJSON(err error) error {
	enc := json.NewEncoder(os.Stdout)
	if err == nil {
		return enc.Encode(map[string]any{"valid": true})
	}
	out := map[string]any{
		"valid":  false,
		"errors": diagnosticStrings(err),
	}
	if encErr := enc.Encode(out); encErr != nil {
		return encErr
	}
	return err
}

func diagnosticStrings(err error) []string {
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}
