// Package cmd provides CLI commands for the warncheck binary.
package cmd

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

// Shared flags for commands that render output.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for check and history.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (check, history only)",
	}
)

// ReadOnlyFlags returns the shared render flags.
// Includes --tui so that unsupported commands can provide explicit error
// messages instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// resolveString returns the flag value when it was set on the command line,
// otherwise the config value.
func resolveString(c *cli.Context, name, configValue string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return configValue
}

// resolveInt is resolveString for int flags.
func resolveInt(c *cli.Context, name string, configValue int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	return configValue
}

// resolveBool is resolveString for bool flags.
func resolveBool(c *cli.Context, name string, configValue bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	return configValue
}

// resolveDuration is resolveString for duration flags.
func resolveDuration(c *cli.Context, name string, configValue time.Duration) time.Duration {
	if c.IsSet(name) {
		return c.Duration(name)
	}
	return configValue
}

// isStderrTTY returns true if stderr is a TTY.
func isStderrTTY() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
