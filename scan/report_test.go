package scan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/metrics"
)

func newTestReport(earlyExit bool) *Report {
	line := diag.Classify(unusedVar)
	report := &Report{
		CheckID:     "chk-001",
		Version:     "0.3.0",
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		BuildPath:   "/build",
		HaveWarning: true,
		Reason:      []string{line.String()},
		Matched:     []diag.Line{line},
		Files: []FileResult{
			{Path: "/build/Logs/Issues/a.xcactivitylog", Status: FileParsed, Lines: 1, Matched: 1},
			{Path: "/build/Logs/Issues/b.xcactivitylog", Status: FileFailed, Error: "slf: bad magic at offset 0"},
		},
		Metrics:    &metrics.Snapshot{FilesDiscovered: 2, FilesScanned: 1, FilesFailed: 1},
		DurationMs: 12,
	}
	if !earlyExit {
		count := 1
		report.MatchedCount = &count
	}
	return report
}

func TestWriteReport_JSONContract(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReportTo(newTestReport(false), &buf); err != nil {
		t.Fatalf("writeReportTo: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"check_id", "version", "timestamp", "build_path", "have_warning", "reason", "matched_count", "matched", "files", "metrics", "duration_ms"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if raw["have_warning"] != true {
		t.Errorf("have_warning = %v", raw["have_warning"])
	}
	if raw["matched_count"] != float64(1) {
		t.Errorf("matched_count = %v", raw["matched_count"])
	}
	reason, ok := raw["reason"].([]any)
	if !ok || len(reason) != 1 || reason[0] != "Foo.m:12:4: warning: unused variable 'x' [-Wunused-variable]" {
		t.Errorf("reason = %v", raw["reason"])
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("}\n")) {
		t.Error("report should end with a newline")
	}
}

func TestWriteReport_MatchedCountOmittedInEarlyExit(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReportTo(newTestReport(true), &buf); err != nil {
		t.Fatalf("writeReportTo: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["matched_count"]; ok {
		t.Error("matched_count must be absent in early-exit mode")
	}
}

func TestWriteReport_RoundTripViaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".warning_checker", "last_result")
	want := newTestReport(false)

	if err := WriteReport(want, path); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}

	if got.CheckID != want.CheckID || !got.Timestamp.Equal(want.Timestamp) || got.HaveWarning != want.HaveWarning {
		t.Errorf("header = %+v", got)
	}
	if got.MatchedCount == nil || *got.MatchedCount != 1 {
		t.Errorf("MatchedCount = %v", got.MatchedCount)
	}
	if len(got.Matched) != 1 || got.Matched[0] != want.Matched[0] {
		t.Errorf("Matched = %+v", got.Matched)
	}
	if len(got.FailedFiles()) != 1 {
		t.Errorf("FailedFiles = %+v", got.FailedFiles())
	}
}

func TestWriteReport_EmptyPath(t *testing.T) {
	if err := WriteReport(newTestReport(false), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestReadReport_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadReport(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v", err)
	}
	bad := filepath.Join(dir, "bad")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReport(bad); err == nil {
		t.Error("expected parse error")
	}
}
