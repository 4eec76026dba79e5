// Package adapter defines the notification boundary for finished checks.
//
// Adapters publish a CheckCompletedEvent to a downstream system (a webhook
// or a Redis channel). Notification failures never change a check verdict.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/pithecene-io/warncheck/scan"
	"github.com/pithecene-io/warncheck/types"
)

// EventTypeCheckCompleted is the only event type published.
const EventTypeCheckCompleted = "check_completed"

// DefaultBackoff is the delay before the first retry. It doubles per retry.
const DefaultBackoff = 500 * time.Millisecond

// CheckCompletedEvent is the payload published when a check finishes.
type CheckCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "check_completed"
	CheckID         string `json:"check_id"`
	BuildPath       string `json:"build_path"`
	Outcome         string `json:"outcome"` // pass or warnings
	HaveWarning     bool   `json:"have_warning"`
	MatchedCount    int    `json:"matched_count"`
	FilesScanned    int    `json:"files_scanned"`
	FilesFailed     int    `json:"files_failed"`
	Timestamp       string `json:"timestamp"` // ISO 8601
	DurationMs      int64  `json:"duration_ms"`
}

// NewEvent builds the event for a report. MatchedCount is the number of
// reported lines, also in early-exit mode.
func NewEvent(report *scan.Report) *CheckCompletedEvent {
	return &CheckCompletedEvent{
		ContractVersion: types.Version,
		EventType:       EventTypeCheckCompleted,
		CheckID:         report.CheckID,
		BuildPath:       report.BuildPath,
		Outcome:         string(report.Outcome()),
		HaveWarning:     report.HaveWarning,
		MatchedCount:    len(report.Matched),
		FilesScanned:    len(report.Files),
		FilesFailed:     len(report.FailedFiles()),
		Timestamp:       report.Timestamp.UTC().Format(time.RFC3339),
		DurationMs:      report.DurationMs,
	}
}

// Adapter publishes check completion events to a downstream system.
type Adapter interface {
	// Publish sends the event. Must respect context cancellation.
	Publish(ctx context.Context, event *CheckCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

// Retry calls fn up to attempts times with exponential backoff starting at
// base. It stops early when fn succeeds or when permanent reports the
// error as non-retriable. name prefixes returned errors.
func Retry(ctx context.Context, name string, attempts int, base time.Duration, permanent func(error) bool, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if base <= 0 {
		base = DefaultBackoff
	}

	var lastErr error
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: context canceled: %w", name, err)
		}

		// Backoff before retries, not before the first attempt.
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * base
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: context canceled during backoff: %w", name, ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return fmt.Errorf("%s: non-retriable error: %w", name, lastErr)
		}
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", name, attempts, lastErr)
}
