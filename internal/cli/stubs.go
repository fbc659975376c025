package cli

import (
	"github.com/spf13/cobra"
)

// The analysis surfaces below are out of scope for this front end; each
// verb still exists, glob-expands and parses its targets with the real
// lexer/parser so syntax errors are reported, then says so.
var (
	coverageCmd = stubFileCommand("coverage", "Report test coverage for source files")

	runtimeCmd = func() *cobra.Command {
		c := stubFileCommand("runtime", "Analyze runtime complexity of source files")
		c.Flags().Bool("bigo", false, "estimate asymptotic complexity")
		return c
	}()

	wasmCmd = stubFileCommand("wasm", "Compile source files to WebAssembly")

	provabilityCmd = stubFileCommand("provability", "Run formal verification over source files")

	propertyTestsCmd = func() *cobra.Command {
		c := stubFileCommand("property-tests", "Property-test source files")
		c.Flags().IntP("cases", "n", 100, "number of generated cases")
		return c
	}()

	mutationsCmd = stubFileCommand("mutations", "Run mutation testing over source files")

	fuzzCmd = func() *cobra.Command {
		c := stubFileCommand("fuzz", "Fuzz source files")
		c.Flags().IntP("iterations", "i", 100, "number of fuzz iterations")
		return c
	}()

	stubCommands = []*cobra.Command{
		coverageCmd, runtimeCmd, wasmCmd, provabilityCmd,
		propertyTestsCmd, mutationsCmd, fuzzCmd,
	}
)

func stubFileCommand(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <files...>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}
			var firstErr error
			for _, path := range paths {
				_, buf, err := parsePath(path)
				if err != nil {
					renderDiagnostics(buf, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				printVerbose("%s: ✓ Syntax is valid", path)
			}
			if firstErr != nil {
				return firstErr
			}
			printInfo("%s is not yet implemented in this surface", name)
			return nil
		},
	}
}
