package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/hook"
	"github.com/pithecene-io/warncheck/scan"
)

// GateCommand returns the gate command run by the pre-commit hook.
func GateCommand() *cli.Command {
	return &cli.Command{
		Name:      "gate",
		Usage:     "Block a commit while the last check reported warnings",
		ArgsUsage: "[result-path]",
		Action:    gateAction,
	}
}

func gateAction(c *cli.Context) error {
	path := scan.DefaultResultPath
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	verdict, err := hook.Evaluate(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("gate: %v", err), exitFatal)
	}
	if !verdict.Blocked {
		return nil
	}

	fmt.Fprint(c.App.ErrWriter, verdict.Message())
	return cli.Exit("", exitWarnings)
}

// HookCommand returns the hook command with subcommands.
func HookCommand() *cli.Command {
	return &cli.Command{
		Name:  "hook",
		Usage: "Manage the git pre-commit hook",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Install the pre-commit hook into the repository containing path",
				ArgsUsage: "[path]",
				Action:    hookAddAction,
			},
			{
				Name:  "raw",
				Usage: "Print the hook script",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, hook.Script())
					return err
				},
			},
		},
	}
}

func hookAddAction(c *cli.Context) error {
	path := "."
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	hookPath, written, err := hook.Install(c.Context, path)
	if errors.Is(err, hook.ErrHookExists) {
		return cli.Exit(fmt.Sprintf("%s: %v (run `warncheck hook raw` and merge it by hand)", hookPath, err), 1)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("install hook: %v", err), 1)
	}

	if written {
		fmt.Fprintf(c.App.Writer, "installed pre-commit hook at %s\n", hookPath)
	} else {
		fmt.Fprintf(c.App.Writer, "pre-commit hook already installed at %s\n", hookPath)
	}
	return nil
}
