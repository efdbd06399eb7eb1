package fulfillment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfigueroa/stockcore/internal/application/fulfillment"
	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/internal/testsupport"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

func newEngine(t *testing.T) (*fulfillment.Engine, *testsupport.MemStore, *testsupport.EventRecorder) {
	t.Helper()
	store := testsupport.NewMemStore()
	recorder := testsupport.NewEventRecorder()
	stockLedger := ledger.New(store, recorder, logger.Nop())
	engine := fulfillment.NewEngine(stockLedger, store, store.BackorderRepo(), recorder, logger.Nop())
	return engine, store, recorder
}

func TestFulfill_AllItemsAvailable_Completes(t *testing.T) {
	engine, store, recorder := newEngine(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})
	store.SeedEntry(entity.StockEntry{ProductID: "P2", WarehouseID: "W1", Quantity: 5})

	result, err := engine.Fulfill(context.Background(), "C1", "W1", []fulfillment.Item{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 5},
	})
	require.NoError(t, err)
	require.True(t, result.Completed())
	assert.Equal(t, entity.OrderStatusCompleted, result.Order.Status)

	p1 := store.Entry("P1", "W1")
	assert.Equal(t, int64(8), p1.Quantity)
	assert.Equal(t, int64(2), p1.ReservedQuantity)
	p2 := store.Entry("P2", "W1")
	assert.Equal(t, int64(0), p2.Quantity)
	assert.Equal(t, int64(5), p2.ReservedQuantity)

	completed := recorder.ByType(events.TypeOrderCompleted)
	require.Len(t, completed, 1)
	ev := completed[0].(events.OrderCompleted)
	assert.Equal(t, result.Order.ID, ev.OrderID)
	assert.Equal(t, "COMPLETED", ev.Status)
}

// All-or-nothing: a later item failing must undo earlier reservations exactly.
func TestFulfill_PartialAvailability_RejectsAndRollsBack(t *testing.T) {
	engine, store, recorder := newEngine(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})
	store.SeedEntry(entity.StockEntry{ProductID: "P2", WarehouseID: "W1", Quantity: 50})

	result, err := engine.Fulfill(context.Background(), "C1", "W1", []fulfillment.Item{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 100},
	})
	require.NoError(t, err, "a rejection is an outcome, not an error")
	require.False(t, result.Completed())
	assert.Equal(t, entity.OrderStatusRejected, result.Order.Status)
	assert.Equal(t, "insufficient stock for product P2", result.RejectionCause)
	assert.Equal(t, result.RejectionCause, result.Order.RejectionReason)

	// Ledger back to the pre-attempt state.
	p1 := store.Entry("P1", "W1")
	assert.Equal(t, int64(10), p1.Quantity)
	assert.Equal(t, int64(0), p1.ReservedQuantity)
	p2 := store.Entry("P2", "W1")
	assert.Equal(t, int64(50), p2.Quantity)
	assert.Equal(t, int64(0), p2.ReservedQuantity)

	assert.Empty(t, recorder.ByType(events.TypeOrderCompleted))
}

func TestFulfill_RejectionCreatesBackorder(t *testing.T) {
	engine, store, _ := newEngine(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 1})

	result, err := engine.Fulfill(context.Background(), "C7", "W1", []fulfillment.Item{
		{ProductID: "P1", Quantity: 3},
	})
	require.NoError(t, err)
	require.False(t, result.Completed())

	backorders := store.Backorders()
	require.Len(t, backorders, 1)
	b := backorders[0]
	assert.Equal(t, "P1", b.ProductID)
	assert.Equal(t, "C7", b.CustomerID)
	assert.Equal(t, int64(3), b.Quantity, "the backorder records the full requested quantity")
	assert.Equal(t, entity.BackorderStatusOpen, b.Status)
	assert.True(t, b.ExpectedDate.After(b.CreatedAt))
}

func TestFulfill_OrderPersistedWithItems(t *testing.T) {
	engine, store, _ := newEngine(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	result, err := engine.Fulfill(context.Background(), "C1", "W1", []fulfillment.Item{
		{ProductID: "P1", Quantity: 4},
	})
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), result.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.OrderStatusCompleted, stored.Status)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "P1", stored.Items[0].ProductID)
	assert.Equal(t, int64(4), stored.Items[0].Quantity)
}

func TestFulfill_ValidationFailures(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	_, err := engine.Fulfill(ctx, "", "W1", []fulfillment.Item{{ProductID: "P1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Fulfill(ctx, "C1", "W1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Fulfill(ctx, "C1", "W1", []fulfillment.Item{{ProductID: "P1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Duplicate product lines are rejected up front.
	_, err = engine.Fulfill(ctx, "C1", "W1", []fulfillment.Item{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "P1", Quantity: 2},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// A store failure mid-attempt surfaces as an error after releasing what was
// already granted.
func TestFulfill_StoreFailureRollsBackGranted(t *testing.T) {
	engine, store, recorder := newEngine(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})
	store.SeedEntry(entity.StockEntry{ProductID: "P2", WarehouseID: "W1", Quantity: 10})
	store.FailUpsert["P2|W1"] = domain.ErrStoreUnavailable

	_, err := engine.Fulfill(context.Background(), "C1", "W1", []fulfillment.Item{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 2},
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	p1 := store.Entry("P1", "W1")
	assert.Equal(t, int64(10), p1.Quantity, "the P1 reservation must have been released")
	assert.Equal(t, int64(0), p1.ReservedQuantity)
	assert.Empty(t, recorder.ByType(events.TypeOrderCompleted))
	assert.Empty(t, store.Backorders(), "store failures do not create backorders")
}
