package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/scan"
)

// Record kind discriminator values.
const (
	RecordKindReport  = "report"
	RecordKindWarning = "warning"
)

// ReportRecord is the storage format of a check summary.
type ReportRecord struct {
	RecordKind string `json:"record_kind"`

	CheckID      string   `json:"check_id"`
	Version      string   `json:"version"`
	Timestamp    string   `json:"timestamp"`
	BuildPath    string   `json:"build_path"`
	Outcome      string   `json:"outcome"`
	HaveWarning  bool     `json:"have_warning"`
	MatchedCount *int     `json:"matched_count,omitempty"`
	Reason       []string `json:"reason"`
	FilesScanned int      `json:"files_scanned"`
	FilesFailed  int      `json:"files_failed"`
	DurationMs   int64    `json:"duration_ms"`

	// Partition key
	Day string `json:"day"`
}

// WarningRecord is the storage format of one matched line.
type WarningRecord struct {
	RecordKind string `json:"record_kind"`

	CheckID  string    `json:"check_id"`
	Seq      int       `json:"seq"`
	Raw      string    `json:"raw"`
	Kind     diag.Kind `json:"kind"`
	FilePath string    `json:"file_path,omitempty"`
	FileName string    `json:"file_name,omitempty"`
	Location string    `json:"location,omitempty"`
	Message  string    `json:"message,omitempty"`
	Flag     string    `json:"flag,omitempty"`

	// Partition key
	Day string `json:"day"`
}

// Line rebuilds the classified line.
func (r *WarningRecord) Line() diag.Line {
	return diag.Line{
		Raw:      r.Raw,
		Kind:     r.Kind,
		FilePath: r.FilePath,
		FileName: r.FileName,
		Location: r.Location,
		Message:  r.Message,
		Flag:     r.Flag,
	}
}

// toReportRecordMap converts a report to the map written to Lode.
// Lode's codec partitions on map keys, so records are written as maps.
func toReportRecordMap(r *scan.Report) map[string]any {
	m := map[string]any{
		"record_kind":   RecordKindReport,
		"check_id":      r.CheckID,
		"version":       r.Version,
		"timestamp":     r.Timestamp.UTC().Format(time.RFC3339Nano),
		"build_path":    r.BuildPath,
		"outcome":       string(r.Outcome()),
		"have_warning":  r.HaveWarning,
		"reason":        append([]string{}, r.Reason...),
		"files_scanned": len(r.Files),
		"files_failed":  len(r.FailedFiles()),
		"duration_ms":   r.DurationMs,
		"day":           DeriveDay(r.Timestamp),
	}
	if r.MatchedCount != nil {
		m["matched_count"] = *r.MatchedCount
	}
	return m
}

func toWarningRecordMap(r *scan.Report, seq int, line diag.Line) map[string]any {
	m := map[string]any{
		"record_kind": RecordKindWarning,
		"check_id":    r.CheckID,
		"seq":         seq,
		"raw":         line.Raw,
		"kind":        string(line.Kind),
		"day":         DeriveDay(r.Timestamp),
	}
	for key, value := range map[string]string{
		"file_path": line.FilePath,
		"file_name": line.FileName,
		"location":  line.Location,
		"message":   line.Message,
		"flag":      line.Flag,
	} {
		if value != "" {
			m[key] = value
		}
	}
	return m
}

// decodeRecord converts a raw record read back from Lode into out.
func decodeRecord(raw map[string]any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("archive: encode record: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("archive: decode record: %w", err)
	}
	return nil
}
