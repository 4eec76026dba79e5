package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/types"
)

// NewApp returns the warncheck CLI application.
func NewApp(commit string) *cli.App {
	return &cli.App{
		Name:    "warncheck",
		Usage:   "Fail builds and commits on disallowed compiler warnings",
		Version: fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Commands: []*cli.Command{
			CheckCommand(),
			GateCommand(),
			HookCommand(),
			HistoryCommand(),
			DebugCommand(),
			VersionCommand(commit),
		},
	}
}
