package transfer

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// StockAdjuster is the slice of the ledger the coordinator needs.
type StockAdjuster interface {
	AdjustDirect(ctx context.Context, productID, warehouseID string, delta, newEntryThreshold int64) (*entity.StockEntry, error)
}

// Notifier receives the transfer event once both legs have committed.
type Notifier interface {
	Broadcast(ev events.Event)
}

// Coordinator moves stock of one product between two warehouse entries. The
// two legs are separate ledger transactions, not one storage transaction, so
// a failed destination credit is compensated by re-crediting the source
// before the error is surfaced.
type Coordinator struct {
	ledger   StockAdjuster
	notifier Notifier
	log      *logger.Logger
}

// NewCoordinator builds the transfer coordinator.
func NewCoordinator(ledger StockAdjuster, notifier Notifier, log *logger.Logger) *Coordinator {
	return &Coordinator{ledger: ledger, notifier: notifier, log: log}
}

// Transfer debits quantity units from the source entry and credits them to
// the destination, creating the destination entry if absent with the source's
// threshold as its default. An insufficient source fails the whole transfer
// with no state change.
func (c *Coordinator) Transfer(ctx context.Context, productID, fromWarehouseID, toWarehouseID string, quantity int64) error {
	if productID == "" || fromWarehouseID == "" || toWarehouseID == "" || quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if fromWarehouseID == toWarehouseID {
		return domain.ErrInvalidInput
	}

	source, err := c.ledger.AdjustDirect(ctx, productID, fromWarehouseID, -quantity, 0)
	if err != nil {
		return err
	}

	// A fresh destination entry inherits the source's threshold.
	if _, err := c.ledger.AdjustDirect(ctx, productID, toWarehouseID, quantity, source.LowStockThreshold); err != nil {
		// Credit failed after the debit committed: put the units back on the
		// source before surfacing the error.
		if _, compErr := c.ledger.AdjustDirect(ctx, productID, fromWarehouseID, quantity, 0); compErr != nil {
			c.log.Error().Err(compErr).
				Str("product_id", productID).
				Str("warehouse_id", fromWarehouseID).
				Int64("quantity", quantity).
				Msg("compensating source credit failed, ledger inconsistent")
		}
		return err
	}

	c.notifier.Broadcast(events.NewInventoryTransfer(productID, fromWarehouseID, toWarehouseID, quantity))
	c.log.Info().
		Str("product_id", productID).
		Str("from", fromWarehouseID).
		Str("to", toWarehouseID).
		Int64("quantity", quantity).
		Msg("transfer completed")
	return nil
}
