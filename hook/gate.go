package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// MaxReasons caps the warning lines printed by the gate.
const MaxReasons = 20

// Verdict is the gate decision for one result file.
type Verdict struct {
	// Blocked is true when the last check found warnings.
	Blocked bool
	// MatchedCount is the reported count; nil in early-exit mode.
	MatchedCount *int
	// Reasons holds at most MaxReasons warning lines.
	Reasons []string
	// Omitted is the number of reasons beyond MaxReasons.
	Omitted int
}

// result holds the keys of the result file the gate depends on. Other
// keys are ignored so older result files still gate.
type result struct {
	HaveWarning  bool     `json:"have_warning"`
	MatchedCount *int     `json:"matched_count"`
	Reason       []string `json:"reason"`
}

// Evaluate reads the result file at path. A missing file means no check
// has run yet and passes.
func Evaluate(path string) (*Verdict, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Verdict{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	var report result
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse result %s: %w", path, err)
	}
	if !report.HaveWarning {
		return &Verdict{}, nil
	}

	v := &Verdict{Blocked: true, MatchedCount: report.MatchedCount}
	reasons := report.Reason
	if len(reasons) > MaxReasons {
		v.Omitted = len(reasons) - MaxReasons
		reasons = reasons[:MaxReasons]
	}
	v.Reasons = append([]string(nil), reasons...)
	return v, nil
}

// Message formats the text printed to stderr when the commit is blocked.
// It is empty for a passing verdict.
func (v *Verdict) Message() string {
	if !v.Blocked {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("   Please resolve the build warnings before committing.\n")
	b.WriteString("   (You should rebuild the project to update the checking result.)\n\n")
	if v.MatchedCount != nil && *v.MatchedCount > 0 {
		fmt.Fprintf(&b, "match %d warning(s):\n", *v.MatchedCount)
	}
	for _, reason := range v.Reasons {
		b.WriteString(reason)
		b.WriteString("\n")
	}
	if v.Omitted > 0 {
		fmt.Fprintf(&b, "... and %d more\n", v.Omitted)
	}
	return b.String()
}
