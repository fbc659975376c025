// Package cli provides the command-line interface for ruchy.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile  string
	evalCode string
	verbose  bool
	quiet    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ruchy",
	Short: "The Ruchy language front end and Rust transpiler",
	Long: `ruchy parses, checks, and transpiles Ruchy source files to Rust.

Example:
  ruchy check main.ruchy               # Parse and validate syntax
  ruchy transpile main.ruchy -o out.rs # Emit Rust source
  ruchy compile main.ruchy -o main     # Transpile and build a binary
  ruchy run main.ruchy                 # Build and execute in one step
  ruchy -e '1 + 2'                     # Evaluate an expression`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalCode != "" {
			return runEval(evalCode)
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it. It is
// called once from main.main(); the returned error maps to the process
// exit code there.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ruchy.toml or ruchy.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.Flags().StringVarP(&evalCode, "eval", "e", "", "evaluate the given expression and print its value")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(notebookCmd)
	for _, c := range stubCommands {
		rootCmd.AddCommand(c)
	}
}

// printInfo prints a message unless quiet mode is on.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printVerbose prints a message when verbose mode is on.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
