package render

import (
	"fmt"
	"strconv"

	"github.com/pithecene-io/warncheck/archive"
	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/scan"
	"github.com/pithecene-io/warncheck/slf"
)

// Summary is the check result view shared by check and history.
type Summary struct {
	CheckID      string   `json:"check_id" yaml:"check_id"`
	BuildPath    string   `json:"build_path" yaml:"build_path"`
	Timestamp    string   `json:"timestamp" yaml:"timestamp"`
	Outcome      string   `json:"outcome" yaml:"outcome"`
	HaveWarning  bool     `json:"have_warning" yaml:"have_warning"`
	MatchedCount *int     `json:"matched_count,omitempty" yaml:"matched_count,omitempty"`
	FilesScanned int      `json:"files_scanned" yaml:"files_scanned"`
	FilesCached  int      `json:"files_cached" yaml:"files_cached"`
	FilesFailed  int      `json:"files_failed" yaml:"files_failed"`
	DurationMs   int64    `json:"duration_ms" yaml:"duration_ms"`
	Reason       []string `json:"reason" yaml:"reason"`
	FailedLogs   []string `json:"failed_logs,omitempty" yaml:"failed_logs,omitempty"`
}

// NewSummary builds the view of a fresh report.
func NewSummary(r *scan.Report) *Summary {
	s := &Summary{
		CheckID:      r.CheckID,
		BuildPath:    r.BuildPath,
		Timestamp:    r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Outcome:      string(r.Outcome()),
		HaveWarning:  r.HaveWarning,
		MatchedCount: r.MatchedCount,
		DurationMs:   r.DurationMs,
		Reason:       r.Reason,
	}
	for _, f := range r.Files {
		switch f.Status {
		case scan.FileParsed:
			s.FilesScanned++
		case scan.FileCached:
			s.FilesScanned++
			s.FilesCached++
		case scan.FileFailed:
			s.FilesFailed++
			s.FailedLogs = append(s.FailedLogs, fmt.Sprintf("%s (%s)", f.Path, f.Error))
		}
	}
	if s.Reason == nil {
		s.Reason = []string{}
	}
	return s
}

// SummaryFromRecord builds the view of an archived report.
func SummaryFromRecord(rec *archive.ReportRecord) *Summary {
	s := &Summary{
		CheckID:      rec.CheckID,
		BuildPath:    rec.BuildPath,
		Timestamp:    rec.Timestamp,
		Outcome:      rec.Outcome,
		HaveWarning:  rec.HaveWarning,
		MatchedCount: rec.MatchedCount,
		FilesScanned: rec.FilesScanned,
		FilesFailed:  rec.FilesFailed,
		DurationMs:   rec.DurationMs,
		Reason:       rec.Reason,
	}
	if s.Reason == nil {
		s.Reason = []string{}
	}
	return s
}

// Passed reports whether no disallowed warning was found.
func (s *Summary) Passed() bool {
	return !s.HaveWarning
}

// Warnings returns the matched warning texts.
func (s *Summary) Warnings() []string {
	return s.Reason
}

// KeyValues implements KeyValuer. Warnings are listed separately.
func (s *Summary) KeyValues() [][2]string {
	kvs := [][2]string{
		{"check_id", s.CheckID},
		{"build_path", s.BuildPath},
		{"timestamp", s.Timestamp},
		{"outcome", s.Outcome},
	}
	if s.MatchedCount != nil {
		kvs = append(kvs, [2]string{"matched_count", strconv.Itoa(*s.MatchedCount)})
	}
	kvs = append(kvs,
		[2]string{"files_scanned", strconv.Itoa(s.FilesScanned)},
		[2]string{"files_cached", strconv.Itoa(s.FilesCached)},
		[2]string{"files_failed", strconv.Itoa(s.FilesFailed)},
		[2]string{"duration_ms", strconv.FormatInt(s.DurationMs, 10)},
	)
	for _, failed := range s.FailedLogs {
		kvs = append(kvs, [2]string{"failed_log", failed})
	}
	return kvs
}

// TokenRow is one row of `debug tokens`.
type TokenRow struct {
	Index   int    `json:"index" yaml:"index"`
	Kind    string `json:"kind" yaml:"kind"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// TokenTable is the view of a decoded token stream.
type TokenTable []TokenRow

// NewTokenTable builds the view of tokens.
func NewTokenTable(tokens []slf.Token) TokenTable {
	rows := make(TokenTable, 0, len(tokens))
	for i, tok := range tokens {
		rows = append(rows, TokenRow{Index: i, Kind: tok.Kind.String(), Content: tok.Content})
	}
	return rows
}

// Header implements Tabler.
func (t TokenTable) Header() []string {
	return []string{"INDEX", "KIND", "CONTENT"}
}

// Rows implements Tabler. Long payloads are shortened to one line.
func (t TokenTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{strconv.Itoa(r.Index), r.Kind, shorten(r.Content, 72)})
	}
	return rows
}

// LineRow is one row of `debug lines` and `debug classify`.
type LineRow struct {
	Kind     string `json:"kind" yaml:"kind"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Flag     string `json:"flag,omitempty" yaml:"flag,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
	Text     string `json:"text" yaml:"text"`
	Raw      string `json:"raw" yaml:"raw"`
}

// LineTable is the view of classified lines.
type LineTable []LineRow

// NewLineTable builds the view of lines.
func NewLineTable(lines []diag.Line) LineTable {
	rows := make(LineTable, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, LineRow{
			Kind:     string(l.Kind),
			FilePath: l.FilePath,
			Location: l.Location,
			Flag:     l.Flag,
			Message:  l.Message,
			Text:     l.String(),
			Raw:      l.Raw,
		})
	}
	return rows
}

// Header implements Tabler.
func (t LineTable) Header() []string {
	return []string{"KIND", "FLAG", "TEXT"}
}

// Rows implements Tabler.
func (t LineTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{r.Kind, r.Flag, shorten(r.Text, 96)})
	}
	return rows
}

func shorten(s string, n int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > n {
		return string(runes[:n-3]) + "..."
	}
	if len(runes) < len([]rune(s)) {
		return string(runes) + "..."
	}
	return string(runes)
}
