package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ruchy-lang/ruchy/internal/cli"
	"github.com/ruchy-lang/ruchy/internal/ruchyerr"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Lex/parse/lowering diagnostics were already rendered with
		// positions by the command; anything else gets one line here.
		var single *ruchyerr.Error
		var list ruchyerr.List
		if !errors.As(err, &single) && !errors.As(err, &list) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(cli.ExitCode(err))
	}
}
