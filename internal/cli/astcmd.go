package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/pkg/visitors"
)

var astJSON bool

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Print the parsed AST of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAst,
}

func init() {
	astCmd.Flags().BoolVar(&astJSON, "json", false, "emit the AST as JSON")
}

func runAst(cmd *cobra.Command, args []string) error {
	f, buf, err := parsePath(args[0])
	if err != nil {
		renderDiagnostics(buf, err)
		return err
	}

	if astJSON {
		data, err := visitors.FileJSON(f)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		fmt.Println()
		return nil
	}

	p := visitors.NewDebugPrinter()
	p.PrintFile(f)
	fmt.Print(p.String())
	return nil
}
