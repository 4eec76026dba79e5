package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/cli/render"
	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/iox"
	"github.com/pithecene-io/warncheck/slf"
)

// DebugCommand returns the debug command with subcommands.
// Debug commands are diagnostic tools; only pack writes a file, and only
// where asked.
func DebugCommand() *cli.Command {
	return &cli.Command{
		Name:  "debug",
		Usage: "Diagnostic tools (tokens, lines, classify, pack)",
		Subcommands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "Decode a build log and print its tokens",
				ArgsUsage: "<log>",
				Flags:     ReadOnlyFlags(),
				Action:    debugTokensAction,
			},
			{
				Name:      "lines",
				Usage:     "Print the classified warning lines of a build log",
				ArgsUsage: "<log>",
				Flags:     ReadOnlyFlags(),
				Action:    debugLinesAction,
			},
			{
				Name:      "classify",
				Usage:     "Classify diagnostic lines given as arguments",
				ArgsUsage: "<line>...",
				Flags:     ReadOnlyFlags(),
				Action:    debugClassifyAction,
			},
			{
				Name:      "pack",
				Usage:     "Write a build log whose string tokens are the lines of a text file",
				ArgsUsage: "<text-file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Destination .xcactivitylog",
						Required: true,
					},
				},
				Action: debugPackAction,
			},
		},
	}
}

func debugRenderer(c *cli.Context) (*render.Renderer, error) {
	if c.Bool("tui") {
		return nil, cli.Exit("--tui is not supported for debug commands", 1)
	}
	return render.NewRenderer(c)
}

func readLogTokens(c *cli.Context) ([]slf.Token, error) {
	if c.NArg() < 1 {
		return nil, cli.Exit("log path required", 1)
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	defer iox.DiscardClose(f)

	tokens, err := slf.ReadLog(f)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("decode %s: %v", c.Args().First(), err), 1)
	}
	return tokens, nil
}

func debugTokensAction(c *cli.Context) error {
	r, err := debugRenderer(c)
	if err != nil {
		return err
	}
	tokens, err := readLogTokens(c)
	if err != nil {
		return err
	}
	return r.Render(render.NewTokenTable(tokens))
}

func debugLinesAction(c *cli.Context) error {
	r, err := debugRenderer(c)
	if err != nil {
		return err
	}
	tokens, err := readLogTokens(c)
	if err != nil {
		return err
	}
	return r.Render(render.NewLineTable(diag.Lines(tokens)))
}

func debugClassifyAction(c *cli.Context) error {
	r, err := debugRenderer(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 {
		return cli.Exit("at least one line required", 1)
	}
	return r.Render(render.NewLineTable(diag.ClassifyAll(c.Args().Slice())))
}

// debugPackAction builds a minimal log: a section header followed by one
// String token per non-empty input line.
func debugPackAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("text file required", 1)
	}
	in, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer iox.DiscardClose(in)

	tokens := []slf.Token{
		{Kind: slf.KindClassName, Content: "IDEActivityLogSection"},
		{Kind: slf.KindInteger, Content: "1"},
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), slf.MaxPayloadSize)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			tokens = append(tokens, slf.Token{Kind: slf.KindString, Content: line})
		}
	}
	if err := sc.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("read %s: %v", c.Args().First(), err), 1)
	}
	tokens = append(tokens, slf.Token{Kind: slf.KindNilList})

	out, err := os.Create(c.String("out"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := slf.WriteLog(out, tokens); err != nil {
		_ = out.Close()
		return cli.Exit(fmt.Sprintf("write %s: %v", c.String("out"), err), 1)
	}
	if err := out.Close(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintf(c.App.Writer, "wrote %d tokens to %s\n", len(tokens), c.String("out"))
	return nil
}
