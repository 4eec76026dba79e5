// Package archive keeps the history of check reports in a Lode dataset.
//
// Records are Hive-partitioned by day, check_id and record_kind. Each check
// writes one report record and one warning record per matched line in a
// single snapshot.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/warncheck/metrics"
	"github.com/pithecene-io/warncheck/scan"
)

// DefaultDataset is the Lode dataset ID used when none is configured.
const DefaultDataset = "warncheck"

// partitionKeys is the Hive layout shared by the write and read paths.
var partitionKeys = []string{"day", "check_id", "record_kind"}

// DeriveDay computes the partition day from the check time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Config holds archive configuration.
type Config struct {
	// Dataset is the Lode dataset ID.
	Dataset string
}

func (c Config) dataset() string {
	if c.Dataset == "" {
		return DefaultDataset
	}
	return c.Dataset
}

// Client persists check reports.
type Client interface {
	// WriteReport stores the report and its matched lines.
	WriteReport(ctx context.Context, report *scan.Report) error
	// Close releases client resources.
	Close() error
}

// LodeClient is the Lode-backed Client.
type LodeClient struct {
	dataset   lode.Dataset
	config    Config
	collector *metrics.Collector
}

// NewLodeClient creates a client with filesystem storage rooted at root.
func NewLodeClient(cfg Config, root string) (*LodeClient, error) {
	return NewLodeClientWithFactory(cfg, lode.NewFSFactory(root))
}

// NewLodeClientWithFactory creates a client with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewLodeClientWithFactory(cfg Config, factory lode.StoreFactory) (*LodeClient, error) {
	ds, err := newDataset(cfg.dataset(), factory)
	if err != nil {
		return nil, WrapInitError(err, cfg.dataset())
	}
	return &LodeClient{dataset: ds, config: cfg}, nil
}

// WithCollector records write outcomes on c. A nil collector is allowed.
func (c *LodeClient) WithCollector(collector *metrics.Collector) *LodeClient {
	c.collector = collector
	return c
}

func newDataset(id string, factory lode.StoreFactory) (lode.Dataset, error) {
	return lode.NewDataset(
		lode.DatasetID(id),
		factory,
		lode.WithHiveLayout(partitionKeys...),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
}

// WriteReport writes the report record followed by one warning record per
// matched line, in report order.
func (c *LodeClient) WriteReport(ctx context.Context, report *scan.Report) error {
	if report == nil {
		return fmt.Errorf("archive: nil report")
	}
	records := make([]any, 0, 1+len(report.Matched))
	records = append(records, toReportRecordMap(report))
	for i, line := range report.Matched {
		records = append(records, toWarningRecordMap(report, i, line))
	}

	if _, err := c.dataset.Write(ctx, records, lode.Metadata{}); err != nil {
		c.collector.IncArchiveWriteFailure()
		return WrapWriteError(err, fmt.Sprintf("%s/%s", c.config.dataset(), report.CheckID))
	}
	c.collector.IncArchiveWriteSuccess()
	return nil
}

// Close releases client resources.
func (c *LodeClient) Close() error {
	return nil
}

// Verify LodeClient implements Client.
var _ Client = (*LodeClient)(nil)
