package lode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/justapithecus/lode/lode"
)

// hiveLayout is the partition order shared by the write and read paths.
var hiveLayout = []string{"format", "day", "run_id", "record_kind"}

// ErrMissingPartition is returned when a partition key is empty.
var ErrMissingPartition = errors.New("lode config: partition key is empty")

// Validate checks that every partition key is set.
func (c Config) Validate() error {
	keys := []struct{ name, value string }{
		{"dataset", c.Dataset},
		{"format", c.Format},
		{"day", c.Day},
		{"run_id", c.RunID},
	}
	for _, k := range keys {
		if k.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingPartition, k.name)
		}
	}
	return nil
}

// newDataset creates a dataset with the verdict layout and codec.
func newDataset(id string, factory lode.StoreFactory) (lode.Dataset, error) {
	return lode.NewDataset(
		lode.DatasetID(id),
		factory,
		lode.WithHiveLayout(hiveLayout...),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
}

// LodeClient is a Lode-backed implementation of Client.
// Uses Lode's HiveLayout with partition keys: format/day/run_id/record_kind.
type LodeClient struct {
	dataset lode.Dataset
	config  Config

	mu sync.Mutex // serializes dataset writes

	storeFactory lode.StoreFactory
	storeOnce    sync.Once
	store        lode.Store
	storeErr     error
}

// NewLodeClient creates a new Lode client with filesystem storage.
// The root parameter is the base directory for Hive-partitioned storage;
// it is created if missing.
func NewLodeClient(cfg Config, root string) (*LodeClient, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, WrapInitError(err, cfg.Dataset)
	}
	return NewLodeClientWithFactory(cfg, lode.NewFSFactory(root))
}

// NewLodeClientWithFactory creates a new Lode client with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewLodeClientWithFactory(cfg Config, factory lode.StoreFactory) (*LodeClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, err := newDataset(cfg.Dataset, factory)
	if err != nil {
		return nil, WrapInitError(err, cfg.Dataset)
	}
	return newClient(ds, cfg, factory), nil
}

func newClient(ds lode.Dataset, cfg Config, factory lode.StoreFactory) *LodeClient {
	return &LodeClient{
		dataset:      ds,
		config:       cfg,
		storeFactory: factory,
	}
}

// WriteVerdict writes a verdict and its findings as one snapshot.
// The verdict record comes first; findings keep their order.
func (c *LodeClient) WriteVerdict(ctx context.Context, verdict VerdictRecord, findings []FindingRecord) error {
	records := make([]any, 0, 1+len(findings))
	records = append(records, toVerdictRecordMap(verdict))
	for _, f := range findings {
		records = append(records, toFindingRecordMap(f))
	}
	return c.write(ctx, records)
}

// WriteBatch writes the batch record as its own snapshot.
func (c *LodeClient) WriteBatch(ctx context.Context, batch BatchRecord) error {
	return c.write(ctx, []any{toBatchRecordMap(batch)})
}

func (c *LodeClient) write(ctx context.Context, records []any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.dataset.Write(ctx, records, lode.Metadata{}); err != nil {
		return WrapWriteError(err, c.partitionPath())
	}
	return nil
}

// partitionPath is the run partition, used in error messages.
func (c *LodeClient) partitionPath() string {
	return fmt.Sprintf("%s/format=%s/day=%s/run_id=%s",
		c.config.Dataset, c.config.Format, c.config.Day, c.config.RunID)
}

// Close releases client resources.
func (c *LodeClient) Close() error {
	// Dataset doesn't require explicit close in current Lode API
	return nil
}

// Verify LodeClient implements Client.
var _ Client = (*LodeClient)(nil)
