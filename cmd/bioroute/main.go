// Command bioroute calculates and validates biogas routes offline, using the
// same engine and catalog as the server.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"bioroute/internal/ctxlog"
)

// ExitError carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	slog.SetDefault(ctxlog.New("warn", "text", os.Stderr))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const usage = `bioroute - biogas route calculator.

Usage:
  bioroute <command> [options] [args]

Commands:
  calc          calculate a scenario file or a template
  validate      check a scenario file against the catalog
  templates     list the route templates
  technologies  list the technology catalog
  export        write a template as a scenario document

Run "bioroute <command> -h" for the options of a command.
`

// run dispatches to a subcommand; outW receives all regular output.
func run(outW io.Writer, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(outW, usage)
		return &ExitError{Code: 2}
	}

	switch args[0] {
	case "calc":
		return runCalc(outW, args[1:])
	case "validate":
		return runValidate(outW, args[1:])
	case "templates":
		return runTemplates(outW, args[1:])
	case "technologies":
		return runTechnologies(outW, args[1:])
	case "export":
		return runExport(outW, args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(outW, usage)
		return nil
	}
	return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", args[0])}
}
