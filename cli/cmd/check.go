package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/warncheck/adapter"
	redisadapter "github.com/pithecene-io/warncheck/adapter/redis"
	"github.com/pithecene-io/warncheck/adapter/webhook"
	"github.com/pithecene-io/warncheck/archive"
	"github.com/pithecene-io/warncheck/cache"
	"github.com/pithecene-io/warncheck/cli/config"
	"github.com/pithecene-io/warncheck/cli/render"
	"github.com/pithecene-io/warncheck/cli/tui"
	"github.com/pithecene-io/warncheck/discover"
	"github.com/pithecene-io/warncheck/iox"
	"github.com/pithecene-io/warncheck/log"
	"github.com/pithecene-io/warncheck/metrics"
	"github.com/pithecene-io/warncheck/scan"
	"github.com/pithecene-io/warncheck/types"
)

// Exit codes of check.
const (
	exitClean    = 0
	exitWarnings = 1
	exitFatal    = 2
	exitUnparsed = 3
)

// CheckCommand returns the check command.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Scan the build logs under a build path for disallowed warnings",
		ArgsUsage: "<build-path>",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (default .warning_checker/config.{json,yaml,yml})",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   `Result file read by the pre-commit gate ("-" for stderr, "" to disable)`,
				Value:   scan.DefaultResultPath,
			},
			&cli.BoolFlag{
				Name:  "first",
				Usage: "Stop at the first disallowed warning (show_non_pass_warning: first)",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "Maximum number of logs decoded concurrently",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Decode every log even if it is cached",
			},
			&cli.BoolFlag{
				Name:  "fail-on-unparsed",
				Usage: "Exit 3 when a log could not be decoded",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the summary",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-file diagnostics (log level debug)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "archive",
				Usage: "Archive the report (fs: directory, s3: bucket/prefix)",
			},
			&cli.StringFlag{
				Name:  "archive-backend",
				Usage: "Archive backend: fs or s3",
			},
			&cli.DurationFlag{
				Name:  "adapter-timeout",
				Usage: "Per-attempt timeout of the notification adapter",
			},
		),
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("build path required", exitFatal)
	}
	buildPath := c.Args().First()

	cfg, cfgPath, err := config.Resolve(".", c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), exitFatal)
	}
	set, err := cfg.RuleSet()
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), exitFatal)
	}
	if c.Bool("first") {
		set = set.WithEarlyExit(true)
	}

	var r *render.Renderer
	if !c.Bool("quiet") {
		if r, err = render.NewRenderer(c); err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}
	}

	meta := types.NewCheckMeta(buildPath)
	logger := log.NewLogger(meta, log.ParseLevel(checkLogLevel(c, cfg)))
	defer logger.Sync()
	if cfgPath != "" {
		logger.Debug("config loaded", map[string]any{"path": cfgPath})
	}

	patterns := cfg.Logs.Patterns
	if len(patterns) == 0 {
		patterns = discover.DefaultPatterns
	}
	paths, err := discover.Find(buildPath, patterns)
	if err != nil {
		return cli.Exit(fmt.Sprintf("discover logs: %v", err), exitFatal)
	}
	if len(paths) == 0 {
		logger.Warn("no build logs found", map[string]any{"patterns": patterns})
	}

	archiveCfg := cfg.Archive
	archiveCfg.Path = resolveString(c, "archive", archiveCfg.Path)
	archiveCfg.Backend = resolveString(c, "archive-backend", archiveCfg.Backend)
	if archiveCfg.Backend == "" {
		archiveCfg.Backend = "fs"
	}

	parallel := resolveInt(c, "parallel", cfg.Parallel)
	collector := metrics.NewCollector(parallel, archiveCfg.Backend, meta.CheckID)

	var lineCache *cache.Cache
	if !resolveBool(c, "no-cache", !cfg.Cache.IsEnabled()) {
		path := cfg.Cache.Path
		if path == "" {
			path = cache.DefaultPath
		}
		if lineCache, err = cache.Open(path); err != nil {
			logger.Warn("cache disabled", map[string]any{"path": path, "error": err.Error()})
			lineCache = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := scan.NewScanner(set, scan.Options{
		Parallel: parallel,
		Cache:    lineCache,
		Logger:   logger,
		Metrics:  collector,
		CheckID:  meta.CheckID,
	})
	report, err := scanner.Scan(ctx, buildPath, scan.FileLogs(paths))
	if err != nil {
		return cli.Exit(fmt.Sprintf("check interrupted: %v", err), exitFatal)
	}

	if err := lineCache.Save(); err != nil {
		logger.Warn("cache not saved", map[string]any{"path": lineCache.Path(), "error": err.Error()})
	}

	if archiveCfg.Path != "" {
		if err := archiveReport(ctx, archiveCfg, collector, report); err != nil {
			logger.Error("archive write failed", map[string]any{
				"backend": archiveCfg.Backend,
				"path":    archiveCfg.Path,
				"error":   err.Error(),
			})
		}
	}

	if cfg.Adapter.Type != "" {
		cfg.Adapter.Timeout.Duration = resolveDuration(c, "adapter-timeout", cfg.Adapter.Timeout.Duration)
		if err := notify(ctx, cfg.Adapter, report); err != nil {
			collector.IncNotifyFailure()
			logger.Error("notification failed", map[string]any{"adapter": cfg.Adapter.Type, "error": err.Error()})
		} else {
			collector.IncNotifySuccess()
		}
	}

	snap := collector.Snapshot()
	report.Metrics = &snap

	output := resolveString(c, "output", cfg.Output)
	if output == "" && !c.IsSet("output") {
		output = scan.DefaultResultPath
	}
	if output != "" {
		if err := scan.WriteReport(report, output); err != nil {
			return cli.Exit(fmt.Sprintf("write result: %v", err), exitFatal)
		}
	}

	if r != nil {
		summary := render.NewSummary(report)
		if c.Bool("tui") {
			err = r.RenderTUI(tui.ViewCheckReport, summary)
		} else {
			err = r.Render(summary)
		}
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	return cli.Exit("", checkExitCode(report, c.Bool("fail-on-unparsed")))
}

// checkExitCode maps a report to the process exit code. Disallowed warnings
// take precedence over undecodable logs.
func checkExitCode(report *scan.Report, failOnUnparsed bool) int {
	switch {
	case report.HaveWarning:
		return exitWarnings
	case failOnUnparsed && len(report.FailedFiles()) > 0:
		return exitUnparsed
	default:
		return exitClean
	}
}

func checkLogLevel(c *cli.Context, cfg *config.Config) string {
	if c.Bool("verbose") {
		return "debug"
	}
	level := resolveString(c, "log-level", cfg.LogLevel)
	if level == "" && isStderrTTY() {
		// Interactive runs only surface problems.
		return "warn"
	}
	return level
}

func archiveReport(ctx context.Context, cfg config.ArchiveConfig, collector *metrics.Collector, report *scan.Report) error {
	client, err := newArchiveClient(ctx, cfg)
	if err != nil {
		collector.IncArchiveWriteFailure()
		return err
	}
	defer iox.DiscardClose(client)
	return client.WithCollector(collector).WriteReport(ctx, report)
}

func newArchiveClient(ctx context.Context, cfg config.ArchiveConfig) (*archive.LodeClient, error) {
	acfg := archive.Config{Dataset: cfg.Dataset}
	switch cfg.Backend {
	case "fs", "":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
		return archive.NewLodeClient(acfg, cfg.Path)
	case "s3":
		return archive.NewLodeS3Client(ctx, acfg, s3Config(cfg))
	default:
		return nil, fmt.Errorf("unknown archive backend: %s (must be fs or s3)", cfg.Backend)
	}
}

func s3Config(cfg config.ArchiveConfig) archive.S3Config {
	bucket, prefix := archive.ParseS3Path(cfg.Path)
	return archive.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       cfg.Region,
		Endpoint:     cfg.Endpoint,
		UsePathStyle: cfg.S3PathStyle,
	}
}

func notify(ctx context.Context, cfg config.AdapterConfig, report *scan.Report) error {
	a, err := newAdapter(cfg)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(a)
	return a.Publish(ctx, adapter.NewEvent(report))
}

func newAdapter(cfg config.AdapterConfig) (adapter.Adapter, error) {
	switch cfg.Type {
	case "webhook":
		retries := webhook.DefaultRetries
		if cfg.Retries != nil {
			retries = *cfg.Retries
		}
		return webhook.New(webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
			Retries: retries,
		})
	case "redis":
		retries := redisadapter.DefaultRetries
		if cfg.Retries != nil {
			retries = *cfg.Retries
		}
		return redisadapter.New(redisadapter.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout.Duration,
			Retries: retries,
		})
	default:
		return nil, errors.New("unknown adapter type: " + cfg.Type)
	}
}
