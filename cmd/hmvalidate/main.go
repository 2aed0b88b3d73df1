// Package main provides the hmvalidate CLI entrypoint.
//
// Usage:
//
//	hmvalidate <command> [subcommand] [options]
//
// Exit codes for `validate`:
//   - 0: every file is valid
//   - 1: at least one file is invalid or had another issue
//   - 2: operational error (bad options, missing directories, interrupted)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hmvalidate/cli/cmd"
	"github.com/pithecene-io/hmvalidate/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "hmvalidate",
		Usage:          "Validate harmonized polygenic score files",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.ValidateCommand(),
			cmd.InspectCommand(),
			cmd.SummaryCommand(),
			cmd.HistoryCommand(),
			cmd.VersionCommand(commit),
		},
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitMessage(exitCoder); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	// Unexpected error - print and exit with code 1
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// exitMessage returns the text worth printing for an exit error.
// cli.Exit("", N).Error() returns "" or "exit status N"; those print nothing.
func exitMessage(e cli.ExitCoder) string {
	msg := e.Error()
	if msg == fmt.Sprintf("exit status %d", e.ExitCode()) {
		return ""
	}
	return msg
}
