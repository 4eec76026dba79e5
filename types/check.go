// Package types holds values shared across warncheck packages.
package types

import "github.com/google/uuid"

// CheckMeta identifies a single check invocation.
// Every log entry, report and notification of one run carries it.
type CheckMeta struct {
	CheckID   string
	BuildPath string
}

// NewCheckMeta returns metadata with a freshly generated check ID.
func NewCheckMeta(buildPath string) *CheckMeta {
	return &CheckMeta{
		CheckID:   uuid.New().String(),
		BuildPath: buildPath,
	}
}

// OutcomeStatus is the verdict of a check.
type OutcomeStatus string

const (
	// OutcomePass means no disallowed warning was found.
	OutcomePass OutcomeStatus = "pass"
	// OutcomeWarnings means at least one disallowed warning was found.
	OutcomeWarnings OutcomeStatus = "warnings"
)
