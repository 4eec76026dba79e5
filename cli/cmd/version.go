package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/cli/render"
	"github.com/pithecene-io/warncheck/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

// KeyValues implements render.KeyValuer.
func (v VersionResponse) KeyValues() [][2]string {
	return [][2]string{{"version", v.Version}, {"commit", v.Commit}}
}

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Flags: ReadOnlyFlags(),
		Action: func(c *cli.Context) error {
			r, err := render.NewRenderer(c)
			if err != nil {
				return err
			}
			if c.Bool("tui") {
				return cli.Exit("--tui is not supported for version command", 1)
			}
			return r.Render(VersionResponse{Version: types.Version, Commit: commit})
		},
	}
}
