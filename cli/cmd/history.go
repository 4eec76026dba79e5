package cmd

import (
	"errors"
	"fmt"

	"github.com/justapithecus/lode/lode"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/archive"
	"github.com/pithecene-io/warncheck/cli/config"
	"github.com/pithecene-io/warncheck/cli/render"
	"github.com/pithecene-io/warncheck/cli/tui"
	"github.com/pithecene-io/warncheck/diag"
)

// HistoryCommand returns the history command.
// It reads the archive only and never writes.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show the latest archived check",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file supplying archive settings",
			},
			&cli.StringFlag{
				Name:  "archive",
				Usage: "Archive location (fs: directory, s3: bucket/prefix)",
			},
			&cli.StringFlag{
				Name:  "archive-backend",
				Usage: "Archive backend: fs or s3",
			},
			&cli.StringFlag{
				Name:  "build-path",
				Usage: "Only consider checks of this build path",
			},
			&cli.BoolFlag{
				Name:  "warnings",
				Usage: "List the archived warning lines instead of the summary",
			},
		),
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	cfg, _, err := config.Resolve(".", c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), exitFatal)
	}
	archiveCfg := cfg.Archive
	archiveCfg.Path = resolveString(c, "archive", archiveCfg.Path)
	archiveCfg.Backend = resolveString(c, "archive-backend", archiveCfg.Backend)
	if archiveCfg.Path == "" {
		return cli.Exit("--archive required (or archive.path in config)", exitFatal)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if c.Bool("tui") && c.Bool("warnings") {
		return cli.Exit("--tui is not supported with --warnings", 1)
	}

	ds, err := openArchive(c, archiveCfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open archive: %v", err), exitFatal)
	}

	rec, err := archive.QueryLatestReport(c.Context, ds, c.String("build-path"))
	if errors.Is(err, archive.ErrNoReportFound) {
		return cli.Exit("no archived check found", 1)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("query archive: %v", err), exitFatal)
	}

	if c.Bool("warnings") {
		warnings, err := archive.QueryWarnings(c.Context, ds, rec.CheckID)
		if err != nil {
			return cli.Exit(fmt.Sprintf("query archive: %v", err), exitFatal)
		}
		return r.Render(render.NewLineTable(warningLines(warnings)))
	}

	summary := render.SummaryFromRecord(rec)
	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewHistoryReport, summary)
	}
	return r.Render(summary)
}

func openArchive(c *cli.Context, cfg config.ArchiveConfig) (lode.Dataset, error) {
	dataset := cfg.Dataset
	if dataset == "" {
		dataset = archive.DefaultDataset
	}
	switch cfg.Backend {
	case "fs", "":
		return archive.NewReadDatasetFS(dataset, cfg.Path)
	case "s3":
		return archive.NewReadDatasetS3(c.Context, dataset, s3Config(cfg))
	default:
		return nil, fmt.Errorf("unknown archive backend: %s (must be fs or s3)", cfg.Backend)
	}
}

func warningLines(records []archive.WarningRecord) []diag.Line {
	lines := make([]diag.Line, 0, len(records))
	for i := range records {
		lines = append(lines, records[i].Line())
	}
	return lines
}
