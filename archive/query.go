package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/justapithecus/lode/lode"
)

// ErrNoReportFound is returned when no report record matches the query.
var ErrNoReportFound = errors.New("no archived report found")

// NewReadDataset opens a dataset for reading with the write-path layout.
func NewReadDataset(dataset string, factory lode.StoreFactory) (lode.Dataset, error) {
	if dataset == "" {
		dataset = DefaultDataset
	}
	ds, err := newDataset(dataset, factory)
	if err != nil {
		return nil, WrapInitError(err, dataset)
	}
	return ds, nil
}

// NewReadDatasetFS opens a read dataset on the filesystem.
func NewReadDatasetFS(dataset, root string) (lode.Dataset, error) {
	return NewReadDataset(dataset, lode.NewFSFactory(root))
}

// QueryLatestReport returns the newest report record, optionally limited
// to one build path.
func QueryLatestReport(ctx context.Context, ds lode.Dataset, buildPath string) (*ReportRecord, error) {
	snapshots, err := ds.Snapshots(ctx)
	if err != nil {
		return nil, WrapReadError(err, "snapshots")
	}

	// Snapshots are ordered by creation time.
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]
		if !snapshotHasPartition(snap, "record_kind", RecordKindReport) {
			continue
		}

		data, err := ds.Read(ctx, snap.ID)
		if err != nil {
			return nil, WrapReadError(err, fmt.Sprintf("snapshot/%s", snap.ID))
		}
		for _, item := range data {
			raw, ok := item.(map[string]any)
			if !ok || raw["record_kind"] != RecordKindReport {
				continue
			}
			if buildPath != "" && raw["build_path"] != buildPath {
				continue
			}
			var record ReportRecord
			if err := decodeRecord(raw, &record); err != nil {
				return nil, err
			}
			return &record, nil
		}
	}
	return nil, ErrNoReportFound
}

// QueryWarnings returns the warning records of one check ordered by seq.
func QueryWarnings(ctx context.Context, ds lode.Dataset, checkID string) ([]WarningRecord, error) {
	snapshots, err := ds.Snapshots(ctx)
	if err != nil {
		return nil, WrapReadError(err, "snapshots")
	}

	var warnings []WarningRecord
	for _, snap := range snapshots {
		if !snapshotHasPartition(snap, "check_id", checkID) ||
			!snapshotHasPartition(snap, "record_kind", RecordKindWarning) {
			continue
		}
		data, err := ds.Read(ctx, snap.ID)
		if err != nil {
			return nil, WrapReadError(err, fmt.Sprintf("snapshot/%s", snap.ID))
		}
		for _, item := range data {
			raw, ok := item.(map[string]any)
			if !ok || raw["record_kind"] != RecordKindWarning || raw["check_id"] != checkID {
				continue
			}
			var record WarningRecord
			if err := decodeRecord(raw, &record); err != nil {
				return nil, err
			}
			warnings = append(warnings, record)
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Seq < warnings[j].Seq })
	return warnings, nil
}

// snapshotHasPartition reports whether any file of the snapshot lives under
// the exact key=value Hive segment. An empty value matches everything.
func snapshotHasPartition(snap *lode.DatasetSnapshot, key, value string) bool {
	if value == "" {
		return true
	}
	segment := key + "=" + value
	for _, f := range snap.Manifest.Files {
		for _, part := range strings.Split(f.Path, "/") {
			if part == segment {
				return true
			}
		}
	}
	return false
}
