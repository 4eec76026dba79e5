package metrics

import (
	"sync"
	"testing"
)

func TestCollector_IncrementMethods(t *testing.T) {
	c := NewCollector(4, "fs", "chk-001")

	c.AddFilesDiscovered(3)
	c.IncFileScanned(10)
	c.IncFileScanned(5)
	c.IncFileCached()
	c.IncFileFailed()
	c.AddLines(7, 2)
	c.AddLines(1, 0)
	c.AddMatched(3)
	c.IncArchiveWriteSuccess()
	c.IncArchiveWriteFailure()
	c.IncNotifySuccess()
	c.IncNotifyFailure()
	c.IncNotifyFailure()

	s := c.Snapshot()

	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"FilesDiscovered", s.FilesDiscovered, 3},
		{"FilesScanned", s.FilesScanned, 2},
		{"TokensDecoded", s.TokensDecoded, 15},
		{"FilesCached", s.FilesCached, 1},
		{"FilesFailed", s.FilesFailed, 1},
		{"LinesExtracted", s.LinesExtracted, 8},
		{"LinesUnparsed", s.LinesUnparsed, 2},
		{"LinesMatched", s.LinesMatched, 3},
		{"ArchiveWriteSuccess", s.ArchiveWriteSuccess, 1},
		{"ArchiveWriteFailure", s.ArchiveWriteFailure, 1},
		{"NotifySuccess", s.NotifySuccess, 1},
		{"NotifyFailure", s.NotifyFailure, 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if s.EarlyExit {
		t.Error("EarlyExit should be false until set")
	}
}

func TestCollector_Dimensions(t *testing.T) {
	s := NewCollector(8, "s3", "chk-xyz").Snapshot()
	if s.Parallel != 8 || s.StorageBackend != "s3" || s.CheckID != "chk-xyz" {
		t.Errorf("dimensions = %+v", s)
	}
}

func TestCollector_SetEarlyExit(t *testing.T) {
	c := NewCollector(1, "", "")
	c.SetEarlyExit()
	if !c.Snapshot().EarlyExit {
		t.Error("EarlyExit not recorded")
	}
}

func TestCollector_NilReceiver(t *testing.T) {
	var c *Collector

	// None of these should panic.
	c.AddFilesDiscovered(1)
	c.IncFileScanned(1)
	c.IncFileCached()
	c.IncFileFailed()
	c.AddLines(1, 1)
	c.AddMatched(1)
	c.SetEarlyExit()
	c.IncArchiveWriteSuccess()
	c.IncArchiveWriteFailure()
	c.IncNotifySuccess()
	c.IncNotifyFailure()

	if s := c.Snapshot(); s != (Snapshot{}) {
		t.Errorf("nil collector snapshot = %+v, want zero", s)
	}
}

func TestCollector_SnapshotIsolation(t *testing.T) {
	c := NewCollector(1, "", "")
	c.IncFileScanned(1)
	s1 := c.Snapshot()
	c.IncFileScanned(1)

	if s1.FilesScanned != 1 {
		t.Errorf("earlier snapshot mutated: FilesScanned = %d", s1.FilesScanned)
	}
	if c.Snapshot().FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", c.Snapshot().FilesScanned)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector(4, "", "")
	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range perGoroutine {
				c.IncFileScanned(2)
				c.AddLines(1, 0)
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	want := int64(goroutines * perGoroutine)
	if s.FilesScanned != want {
		t.Errorf("FilesScanned = %d, want %d", s.FilesScanned, want)
	}
	if s.TokensDecoded != 2*want {
		t.Errorf("TokensDecoded = %d, want %d", s.TokensDecoded, 2*want)
	}
	if s.LinesExtracted != want {
		t.Errorf("LinesExtracted = %d, want %d", s.LinesExtracted, want)
	}
}
