// Package metrics provides per-check counters.
//
// The Collector accumulates counters during a single check. It is a leaf
// package with no internal dependencies; the final Snapshot is embedded in
// the check report.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Discovery and decoding
	FilesDiscovered int64 `json:"files_discovered" msgpack:"files_discovered"`
	FilesScanned    int64 `json:"files_scanned" msgpack:"files_scanned"`
	FilesCached     int64 `json:"files_cached" msgpack:"files_cached"`
	FilesFailed     int64 `json:"files_failed" msgpack:"files_failed"`
	TokensDecoded   int64 `json:"tokens_decoded" msgpack:"tokens_decoded"`

	// Classification and rules
	LinesExtracted int64 `json:"lines_extracted" msgpack:"lines_extracted"`
	LinesUnparsed  int64 `json:"lines_unparsed" msgpack:"lines_unparsed"`
	LinesMatched   int64 `json:"lines_matched" msgpack:"lines_matched"`
	EarlyExit      bool  `json:"early_exit" msgpack:"early_exit"`

	// Sinks
	ArchiveWriteSuccess int64 `json:"archive_write_success" msgpack:"archive_write_success"`
	ArchiveWriteFailure int64 `json:"archive_write_failure" msgpack:"archive_write_failure"`
	NotifySuccess       int64 `json:"notify_success" msgpack:"notify_success"`
	NotifyFailure       int64 `json:"notify_failure" msgpack:"notify_failure"`

	// Dimensions (informational, set at construction)
	Parallel       int    `json:"parallel" msgpack:"parallel"`
	StorageBackend string `json:"storage_backend,omitempty" msgpack:"storage_backend,omitempty"`
	CheckID        string `json:"check_id,omitempty" msgpack:"check_id,omitempty"`
}

// Collector accumulates counters during a single check.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex
	s  Snapshot
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(parallel int, storageBackend, checkID string) *Collector {
	return &Collector{s: Snapshot{
		Parallel:       parallel,
		StorageBackend: storageBackend,
		CheckID:        checkID,
	}}
}

func (c *Collector) update(fn func(s *Snapshot)) {
	if c == nil {
		return
	}
	c.mu.Lock()
	fn(&c.s)
	c.mu.Unlock()
}

// --- Discovery and decoding ---

// AddFilesDiscovered records n discovered log files.
func (c *Collector) AddFilesDiscovered(n int) {
	c.update(func(s *Snapshot) { s.FilesDiscovered += int64(n) })
}

// IncFileScanned records a log file that was decoded and classified.
func (c *Collector) IncFileScanned(tokens int) {
	c.update(func(s *Snapshot) {
		s.FilesScanned++
		s.TokensDecoded += int64(tokens)
	})
}

// IncFileCached records a log file whose lines came from the cache.
func (c *Collector) IncFileCached() {
	c.update(func(s *Snapshot) { s.FilesCached++ })
}

// IncFileFailed records a log file that could not be decoded.
func (c *Collector) IncFileFailed() {
	c.update(func(s *Snapshot) { s.FilesFailed++ })
}

// --- Classification and rules ---

// AddLines records extracted lines, of which unparsed matched no pattern.
func (c *Collector) AddLines(extracted, unparsed int) {
	c.update(func(s *Snapshot) {
		s.LinesExtracted += int64(extracted)
		s.LinesUnparsed += int64(unparsed)
	})
}

// AddMatched records lines that failed the rule set.
func (c *Collector) AddMatched(n int) {
	c.update(func(s *Snapshot) { s.LinesMatched += int64(n) })
}

// SetEarlyExit records that scanning stopped at the first hit.
func (c *Collector) SetEarlyExit() {
	c.update(func(s *Snapshot) { s.EarlyExit = true })
}

// --- Sinks ---
// Archive counters are per-call: one report write with N warning records
// counts as 1.

// IncArchiveWriteSuccess records a successful archive write.
func (c *Collector) IncArchiveWriteSuccess() {
	c.update(func(s *Snapshot) { s.ArchiveWriteSuccess++ })
}

// IncArchiveWriteFailure records a failed archive write.
func (c *Collector) IncArchiveWriteFailure() {
	c.update(func(s *Snapshot) { s.ArchiveWriteFailure++ })
}

// IncNotifySuccess records a delivered notification.
func (c *Collector) IncNotifySuccess() {
	c.update(func(s *Snapshot) { s.NotifySuccess++ })
}

// IncNotifyFailure records a notification that exhausted its retries.
func (c *Collector) IncNotifyFailure() {
	c.update(func(s *Snapshot) { s.NotifyFailure++ })
}

// --- Snapshot ---

// Snapshot returns a point-in-time copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
