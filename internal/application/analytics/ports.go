package analytics

import (
	"context"
	"time"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
)

// SnapshotCache stores short-lived trend snapshots keyed per stock entry.
type SnapshotCache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// StockReader is the read-only slice of the stock repository the job uses.
type StockReader interface {
	ListRecentlyUpdated(ctx context.Context, limit int) ([]*entity.StockEntry, error)
}
