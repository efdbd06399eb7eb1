package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jfigueroa/stockcore/pkg/logger"
)

// SnapshotKey formats the cache key for one stock entry's trend snapshot.
func SnapshotKey(productID, warehouseID string) string {
	return fmt.Sprintf("inventory_trend:%s:%s", productID, warehouseID)
}

// Snapshot is the cached trend record for one stock entry.
type Snapshot struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

// JobConfig tuning for the snapshot job.
type JobConfig struct {
	BatchSize     int
	Interval      time.Duration // normal cadence
	RetryInterval time.Duration // wait after a failed cycle
	CacheTTL      time.Duration // snapshot expiry
}

// SnapshotJob periodically reads the most recently updated stock entries and
// caches a trend snapshot per entry. It only ever reads the ledger. A failed
// cycle is logged and the job backs off to RetryInterval before resuming its
// normal cadence; it never terminates the process.
type SnapshotJob struct {
	entries StockReader
	cache   SnapshotCache
	cfg     JobConfig
	log     *logger.Logger
}

// NewSnapshotJob builds the job.
func NewSnapshotJob(entries StockReader, cache SnapshotCache, cfg JobConfig, log *logger.Logger) *SnapshotJob {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	return &SnapshotJob{entries: entries, cache: cache, cfg: cfg, log: log}
}

// Run loops until the context is cancelled, waiting Interval between
// successful cycles and RetryInterval after a failure.
func (j *SnapshotJob) Run(ctx context.Context) {
	j.log.Info().
		Dur("interval", j.cfg.Interval).
		Int("batch_size", j.cfg.BatchSize).
		Msg("snapshot job started")

	for {
		wait := j.cfg.Interval
		if err := j.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			j.log.Error().Err(err).Msg("snapshot cycle failed, backing off")
			wait = j.cfg.RetryInterval
		}

		select {
		case <-ctx.Done():
			j.log.Info().Msg("snapshot job stopped")
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle performs one read-and-cache pass. Exported so tests and operators
// can drive cycles without real time delays.
func (j *SnapshotJob) RunCycle(ctx context.Context) error {
	entries, err := j.entries.ListRecentlyUpdated(ctx, j.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("list stock entries: %w", err)
	}

	now := time.Now().UTC()
	for _, e := range entries {
		snap := Snapshot{
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			Quantity:    e.Quantity,
			Timestamp:   now,
		}
		payload, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		key := SnapshotKey(e.ProductID, e.WarehouseID)
		if err := j.cache.Set(ctx, key, payload, j.cfg.CacheTTL); err != nil {
			return fmt.Errorf("cache snapshot %s: %w", key, err)
		}
	}

	j.log.Debug().Int("entries", len(entries)).Msg("snapshot cycle done")
	return nil
}
