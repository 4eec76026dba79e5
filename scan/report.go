package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/metrics"
	"github.com/pithecene-io/warncheck/types"
)

// DefaultResultPath is where check writes the report for the pre-commit gate.
const DefaultResultPath = ".warning_checker/last_result"

// FileStatus is the per-file outcome of a scan.
type FileStatus string

const (
	// FileParsed means the log was decoded and classified.
	FileParsed FileStatus = "parsed"
	// FileCached means the classified lines came from the cache.
	FileCached FileStatus = "cached"
	// FileFailed means the log could not be read or decoded. It contributed
	// no matches.
	FileFailed FileStatus = "failed"
)

// FileResult describes one scanned log.
type FileResult struct {
	Path    string     `json:"path"`
	Status  FileStatus `json:"status"`
	Error   string     `json:"error,omitempty"`
	Lines   int        `json:"lines"`
	Matched int        `json:"matched"`
}

// Report is the result of one check.
//
// have_warning, reason and matched_count form the contract read by the
// pre-commit gate. matched_count is absent in early-exit mode.
type Report struct {
	CheckID      string            `json:"check_id"`
	Version      string            `json:"version"`
	Timestamp    time.Time         `json:"timestamp"`
	BuildPath    string            `json:"build_path"`
	HaveWarning  bool              `json:"have_warning"`
	Reason       []string          `json:"reason"`
	MatchedCount *int              `json:"matched_count,omitempty"`
	Matched      []diag.Line       `json:"matched"`
	Files        []FileResult      `json:"files"`
	Metrics      *metrics.Snapshot `json:"metrics,omitempty"`
	DurationMs   int64             `json:"duration_ms"`
}

// Outcome returns the verdict of the report.
func (r *Report) Outcome() types.OutcomeStatus {
	if r.HaveWarning {
		return types.OutcomeWarnings
	}
	return types.OutcomePass
}

// Passed reports whether no disallowed warning was found.
func (r *Report) Passed() bool {
	return !r.HaveWarning
}

// FailedFiles returns the files that could not be decoded.
func (r *Report) FailedFiles() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Status == FileFailed {
			failed = append(failed, f)
		}
	}
	return failed
}

// WriteReport writes the report as indented JSON to path, creating parent
// directories. If path is "-", writes to stderr.
func WriteReport(report *Report, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}
	if path == "-" {
		if err := writeReportTo(report, os.Stderr); err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	data, err := marshalReport(report)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &report, nil
}

func marshalReport(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// writeReportTo writes report JSON to any writer.
func writeReportTo(report *Report, w io.Writer) error {
	data, err := marshalReport(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
