package tui

import (
	"fmt"
	"slices"
)

// View types with an interactive rendering.
const (
	ViewCheckReport   = "check_report"
	ViewHistoryReport = "history_report"
)

// Run starts the TUI for the view type.
// Returns an error if the view type doesn't support TUI.
func Run(viewType string, data any) error {
	if !IsTUISupported(viewType) {
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}
	summary, ok := data.(Summary)
	if !ok {
		return fmt.Errorf("invalid data type %T for %s", data, viewType)
	}
	return RunReportTUI(viewType, summary)
}

// IsTUISupported returns true if the view type supports TUI mode.
func IsTUISupported(viewType string) bool {
	return slices.Contains(SupportedTUIViews(), viewType)
}

// SupportedTUIViews returns the view types that support TUI.
func SupportedTUIViews() []string {
	return []string{ViewCheckReport, ViewHistoryReport}
}
