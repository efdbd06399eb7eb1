package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/application/transfer"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/internal/testsupport"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

func newCoordinator(t *testing.T) (*transfer.Coordinator, *testsupport.MemStore, *testsupport.EventRecorder) {
	t.Helper()
	store := testsupport.NewMemStore()
	recorder := testsupport.NewEventRecorder()
	stockLedger := ledger.New(store, recorder, logger.Nop())
	return transfer.NewCoordinator(stockLedger, recorder, logger.Nop()), store, recorder
}

func TestTransfer_MovesFullQuantity(t *testing.T) {
	c, store, recorder := newCoordinator(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10, LowStockThreshold: 3})

	err := c.Transfer(context.Background(), "P1", "W1", "W2", 10)
	require.NoError(t, err)

	source := store.Entry("P1", "W1")
	assert.Equal(t, int64(0), source.Quantity)
	dest := store.Entry("P1", "W2")
	require.NotNil(t, dest, "destination entry is created on first credit")
	assert.Equal(t, int64(10), dest.Quantity)

	transfers := recorder.ByType(events.TypeInventoryTransfer)
	require.Len(t, transfers, 1)
	ev := transfers[0].(events.InventoryTransfer)
	assert.Equal(t, "P1", ev.ProductID)
	assert.Equal(t, "W1", ev.FromWarehouse)
	assert.Equal(t, "W2", ev.ToWarehouse)
	assert.Equal(t, int64(10), ev.Quantity)
}

// A fresh destination entry inherits the source's low-stock threshold.
func TestTransfer_DestinationInheritsThreshold(t *testing.T) {
	c, store, _ := newCoordinator(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10, LowStockThreshold: 7})

	require.NoError(t, c.Transfer(context.Background(), "P1", "W1", "W2", 4))

	dest := store.Entry("P1", "W2")
	require.NotNil(t, dest)
	assert.Equal(t, int64(7), dest.LowStockThreshold)
}

func TestTransfer_ExistingDestinationKeepsOwnThreshold(t *testing.T) {
	c, store, _ := newCoordinator(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10, LowStockThreshold: 7})
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W2", Quantity: 1, LowStockThreshold: 2})

	require.NoError(t, c.Transfer(context.Background(), "P1", "W1", "W2", 4))

	dest := store.Entry("P1", "W2")
	assert.Equal(t, int64(5), dest.Quantity)
	assert.Equal(t, int64(2), dest.LowStockThreshold)
}

func TestTransfer_InsufficientSourceChangesNothing(t *testing.T) {
	c, store, recorder := newCoordinator(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	err := c.Transfer(context.Background(), "P1", "W1", "W2", 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), store.Entry("P1", "W1").Quantity)
	assert.Nil(t, store.Entry("P1", "W2"))
	assert.Empty(t, recorder.ByType(events.TypeInventoryTransfer))
}

func TestTransfer_ValidationFailures(t *testing.T) {
	c, _, _ := newCoordinator(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Transfer(ctx, "P1", "W1", "W2", 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, c.Transfer(ctx, "P1", "W1", "W2", -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, c.Transfer(ctx, "P1", "W1", "W1", 5), domain.ErrInvalidInput)
	assert.ErrorIs(t, c.Transfer(ctx, "", "W1", "W2", 5), domain.ErrInvalidInput)
}

// When the destination credit fails after the debit committed, the units are
// re-credited to the source.
func TestTransfer_DestinationFailureCompensatesSource(t *testing.T) {
	c, store, recorder := newCoordinator(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})
	store.FailUpsert["P1|W2"] = domain.ErrStoreUnavailable

	err := c.Transfer(context.Background(), "P1", "W1", "W2", 6)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	source := store.Entry("P1", "W1")
	assert.Equal(t, int64(10), source.Quantity, "compensation must restore the source")
	assert.Nil(t, store.Entry("P1", "W2"))
	assert.Empty(t, recorder.ByType(events.TypeInventoryTransfer))
}
