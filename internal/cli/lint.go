package cli

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ruchy-lang/ruchy/pkg/visitors"
)

var lintCmd = &cobra.Command{
	Use:   "lint <files...>",
	Short: "Check source files for style and correctness warnings",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

// expandGlobs resolves each argument as a doublestar pattern against the
// working directory, so `ruchy lint 'src/**/*.ruchy'` works the same
// everywhere regardless of shell glob support.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !hasGlobMeta(arg) {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func hasGlobMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func runLint(cmd *cobra.Command, args []string) error {
	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	total := 0
	var firstErr error
	for _, path := range paths {
		f, buf, err := parsePath(path)
		if err != nil {
			renderDiagnostics(buf, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		warnings := visitors.NewLinter().LintFile(f)
		for _, w := range warnings {
			line, col := buf.LineCol(w.Span.Start)
			fmt.Fprintf(os.Stderr, "%s:%d:%d: warning: %s\n", path, line, col, w.Message)
			total++
			if cfg.Lint.MaxWarnings > 0 && total >= cfg.Lint.MaxWarnings {
				printInfo("stopping after %d warnings", total)
				return firstErr
			}
		}
	}
	if total == 0 && firstErr == nil {
		printInfo("no warnings")
	}
	return firstErr
}
