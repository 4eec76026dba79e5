// Package scan drives tokenizing, classification and rule evaluation across
// every log of a build and shapes the final report.
package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pithecene-io/warncheck/cache"
	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/iox"
	"github.com/pithecene-io/warncheck/log"
	"github.com/pithecene-io/warncheck/metrics"
	"github.com/pithecene-io/warncheck/rules"
	"github.com/pithecene-io/warncheck/slf"
	"github.com/pithecene-io/warncheck/types"
)

// MaxLogSize caps the compressed size of a single log.
const MaxLogSize = 1 << 30

// Options configures a Scanner. The zero value scans sequentially with no
// cache, no logging and no metrics.
type Options struct {
	// Parallel is the maximum number of logs decoded concurrently.
	// Values below 2 decode sequentially. Ignored in early-exit mode.
	Parallel int
	// Cache stores classified lines between checks. May be nil.
	Cache *cache.Cache
	// Logger receives per-file diagnostics. May be nil.
	Logger *log.Logger
	// Metrics collects counters. May be nil.
	Metrics *metrics.Collector
	// CheckID identifies the check in the report. Generated when empty.
	CheckID string
}

// Scanner applies one rule set to the logs of a build.
type Scanner struct {
	rules *rules.Set
	opts  Options
}

// NewScanner creates a Scanner. A nil set means rules.Default().
func NewScanner(set *rules.Set, opts Options) *Scanner {
	if set == nil {
		set = rules.Default()
	}
	return &Scanner{rules: set, opts: opts}
}

// decoded is the classification of one log before rule evaluation.
type decoded struct {
	status FileStatus
	lines  []diag.Line
	tokens int
	err    error
}

// Scan evaluates every log in order and returns the aggregated report.
//
// A log that cannot be opened or decoded is recorded as FileFailed and
// contributes no matches; it never aborts the scan. In early-exit mode logs
// are decoded one at a time and scanning stops after the first log that
// leaves a non-empty matched set. Otherwise logs may be decoded in parallel
// but are always merged in the given order. Only context cancellation
// returns an error.
func (s *Scanner) Scan(ctx context.Context, buildPath string, logs []LogFile) (*Report, error) {
	start := time.Now()
	checkID := s.opts.CheckID
	if checkID == "" {
		checkID = types.NewCheckMeta(buildPath).CheckID
	}
	s.opts.Metrics.AddFilesDiscovered(len(logs))

	earlyExit := s.rules.EarlyExit()
	agg := &aggregator{scanner: s, earlyExit: earlyExit}

	if earlyExit || s.opts.Parallel < 2 || len(logs) < 2 {
		for _, lf := range logs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if agg.merge(lf.Path, s.decode(lf)) {
				s.opts.Metrics.SetEarlyExit()
				s.opts.Logger.Debug("early exit", map[string]any{"path": lf.Path})
				break
			}
		}
	} else {
		results, err := s.decodeAll(ctx, logs)
		if err != nil {
			return nil, err
		}
		for i, lf := range logs {
			agg.merge(lf.Path, results[i])
		}
	}

	reason := make([]string, 0, len(agg.matched))
	for _, line := range agg.matched {
		reason = append(reason, line.String())
	}

	report := &Report{
		CheckID:     checkID,
		Version:     types.Version,
		Timestamp:   start.UTC(),
		BuildPath:   buildPath,
		HaveWarning: len(agg.matched) > 0,
		Reason:      reason,
		Matched:     agg.matched,
		Files:       agg.files,
	}
	if report.Matched == nil {
		report.Matched = []diag.Line{}
	}
	if report.Files == nil {
		report.Files = []FileResult{}
	}
	if !earlyExit {
		count := len(agg.matched)
		report.MatchedCount = &count
	}
	if s.opts.Metrics != nil {
		snap := s.opts.Metrics.Snapshot()
		report.Metrics = &snap
	}
	report.DurationMs = time.Since(start).Milliseconds()

	s.opts.Logger.Info("check completed", map[string]any{
		"have_warning": report.HaveWarning,
		"matched":      len(report.Matched),
		"files":        len(report.Files),
		"failed":       len(report.FailedFiles()),
		"duration_ms":  report.DurationMs,
	})
	return report, nil
}

// decodeAll decodes logs with bounded concurrency. Results keep input order.
func (s *Scanner) decodeAll(ctx context.Context, logs []LogFile) ([]decoded, error) {
	results := make([]decoded, len(logs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallel)
	for i, lf := range logs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.decode(lf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// decode reads, tokenizes and classifies one log, consulting the cache.
// The token buffer is dropped once the lines are classified.
func (s *Scanner) decode(lf LogFile) decoded {
	rc, err := lf.Open()
	if err != nil {
		return decoded{status: FileFailed, err: fmt.Errorf("open: %w", err)}
	}
	defer iox.DiscardClose(rc)

	data, err := iox.ReadAllLimit(rc, MaxLogSize)
	if err != nil {
		return decoded{status: FileFailed, err: fmt.Errorf("read: %w", err)}
	}

	var key string
	if s.opts.Cache != nil {
		key = cache.Key(data)
		if lines, ok := s.opts.Cache.Get(key); ok {
			return decoded{status: FileCached, lines: lines}
		}
	}

	tokens, err := slf.ReadLog(bytes.NewReader(data))
	if err != nil {
		return decoded{status: FileFailed, err: err}
	}
	lines := diag.Lines(tokens)
	s.opts.Cache.Put(key, lines)
	return decoded{status: FileParsed, lines: lines, tokens: len(tokens)}
}

// aggregator owns the running matched set. It is only touched from the
// goroutine running Scan.
type aggregator struct {
	scanner   *Scanner
	earlyExit bool
	matched   []diag.Line
	files     []FileResult
}

// merge records one log and reports whether scanning should stop.
func (a *aggregator) merge(path string, d decoded) bool {
	s := a.scanner
	result := FileResult{Path: path, Status: d.status, Lines: len(d.lines)}

	if d.status == FileFailed {
		result.Error = d.err.Error()
		a.files = append(a.files, result)
		s.opts.Metrics.IncFileFailed()
		s.opts.Logger.Warn("log could not be parsed", map[string]any{
			"path":       path,
			"error":      d.err.Error(),
			"error_kind": errorKind(d.err),
		})
		return false
	}

	switch d.status {
	case FileCached:
		s.opts.Metrics.IncFileCached()
	default:
		s.opts.Metrics.IncFileScanned(d.tokens)
	}
	unparsed := 0
	for _, line := range d.lines {
		if line.IsUnparsed() {
			unparsed++
		}
	}
	s.opts.Metrics.AddLines(len(d.lines), unparsed)

	hits := s.rules.Evaluate(d.lines)
	result.Matched = len(hits)
	a.matched = append(a.matched, hits...)
	a.files = append(a.files, result)
	s.opts.Metrics.AddMatched(len(hits))

	s.opts.Logger.Debug("log scanned", map[string]any{
		"path":     path,
		"status":   string(d.status),
		"lines":    len(d.lines),
		"unparsed": unparsed,
		"matched":  len(hits),
	})

	return a.earlyExit && len(a.matched) > 0
}

func errorKind(err error) string {
	var formatErr *slf.FormatError
	if errors.As(err, &formatErr) {
		return formatErr.Kind.String()
	}
	return "io"
}
