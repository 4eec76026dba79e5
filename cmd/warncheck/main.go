// Package main provides the warncheck CLI entrypoint.
//
// Usage:
//
//	warncheck <command> [subcommand] [options]
//
// Exit codes of `check`:
//   - 0: no disallowed warning
//   - 1: disallowed warnings found
//   - 2: invalid configuration or fatal error
//   - 3: a log could not be decoded (with --fail-on-unparsed)
//
// `gate` exits 1 while the last result reports warnings.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/cli/cmd"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := cmd.NewApp(commit)
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already exited for cli.ExitCoder errors.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitMessage(exitCoder); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// exitMessage returns the text worth printing for an exit error.
// cli.Exit("", N).Error() is "exit status N" or empty; both are silent.
func exitMessage(exitCoder cli.ExitCoder) string {
	msg := exitCoder.Error()
	if msg == fmt.Sprintf("exit status %d", exitCoder.ExitCode()) {
		return ""
	}
	return msg
}
