package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/internal/testsupport"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

func newLedger(t *testing.T) (*ledger.Ledger, *testsupport.MemStore, *testsupport.EventRecorder) {
	t.Helper()
	store := testsupport.NewMemStore()
	recorder := testsupport.NewEventRecorder()
	return ledger.New(store, recorder, logger.Nop()), store, recorder
}

func TestSetLevel_CreatesEntryWithZeroReserved(t *testing.T) {
	l, store, _ := newLedger(t)

	entry, err := l.SetLevel(context.Background(), "P1", "W1", 50, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(50), entry.Quantity)
	assert.Equal(t, int64(0), entry.ReservedQuantity)
	assert.Equal(t, int64(10), entry.LowStockThreshold)

	movements := store.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeSET, movements[0].Type)
	assert.Equal(t, int64(50), movements[0].Quantity)
}

func TestSetLevel_PreservesReservedQuantity(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{
		ProductID: "P1", WarehouseID: "W1",
		Quantity: 20, ReservedQuantity: 5, LowStockThreshold: 3,
	})

	entry, err := l.SetLevel(context.Background(), "P1", "W1", 100, 8)
	require.NoError(t, err)

	assert.Equal(t, int64(100), entry.Quantity)
	assert.Equal(t, int64(5), entry.ReservedQuantity, "overwriting the level must not touch reservations")
	assert.Equal(t, int64(8), entry.LowStockThreshold)
}

func TestSetLevel_RejectsNegativeInputs(t *testing.T) {
	l, _, _ := newLedger(t)

	_, err := l.SetLevel(context.Background(), "P1", "W1", -1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.SetLevel(context.Background(), "P1", "W1", 1, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.SetLevel(context.Background(), "", "W1", 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// The boundary value fires: quantity equal to the threshold emits an alert.
func TestSetLevel_LowStockAlertAtBoundary(t *testing.T) {
	l, _, recorder := newLedger(t)

	_, err := l.SetLevel(context.Background(), "P1", "W1", 10, 10)
	require.NoError(t, err)

	alerts := recorder.ByType(events.TypeLowStockAlert)
	require.Len(t, alerts, 1)
	alert := alerts[0].(events.LowStockAlert)
	assert.Equal(t, "P1", alert.ProductID)
	assert.Equal(t, "W1", alert.WarehouseID)
	assert.Equal(t, int64(10), alert.CurrentStock)
}

func TestSetLevel_NoAlertAboveThreshold(t *testing.T) {
	l, _, recorder := newLedger(t)

	_, err := l.SetLevel(context.Background(), "P1", "W1", 11, 10)
	require.NoError(t, err)

	assert.Empty(t, recorder.ByType(events.TypeLowStockAlert))
}

func TestTryReserve_MovesAvailableToReserved(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	require.NoError(t, l.TryReserve(context.Background(), "P1", "W1", 4))

	entry := store.Entry("P1", "W1")
	assert.Equal(t, int64(6), entry.Quantity)
	assert.Equal(t, int64(4), entry.ReservedQuantity)

	movements := store.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeRESERVE, movements[0].Type)
	assert.Equal(t, int64(-4), movements[0].Quantity)
}

func TestTryReserve_InsufficientStockLeavesStateUntouched(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 3})

	err := l.TryReserve(context.Background(), "P1", "W1", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	entry := store.Entry("P1", "W1")
	assert.Equal(t, int64(3), entry.Quantity)
	assert.Equal(t, int64(0), entry.ReservedQuantity)
	assert.Empty(t, store.Movements(), "a failed reservation must not leave an audit row")
}

func TestTryReserve_MissingEntryIsInsufficient(t *testing.T) {
	l, _, _ := newLedger(t)
	err := l.TryReserve(context.Background(), "P1", "W1", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTryReserve_NonPositiveAmount(t *testing.T) {
	l, _, _ := newLedger(t)
	assert.ErrorIs(t, l.TryReserve(context.Background(), "P1", "W1", 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.TryReserve(context.Background(), "P1", "W1", -5), domain.ErrInvalidInput)
}

// Reserve then release returns the entry to its exact prior state.
func TestReserveReleaseRoundTrip(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10, LowStockThreshold: 2})

	require.NoError(t, l.TryReserve(context.Background(), "P1", "W1", 7))
	require.NoError(t, l.Release(context.Background(), "P1", "W1", 7))

	entry := store.Entry("P1", "W1")
	assert.Equal(t, int64(10), entry.Quantity)
	assert.Equal(t, int64(0), entry.ReservedQuantity)
	assert.Equal(t, int64(2), entry.LowStockThreshold)
}

func TestRelease_MoreThanReservedIsInvalidState(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 5, ReservedQuantity: 2})

	err := l.Release(context.Background(), "P1", "W1", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	entry := store.Entry("P1", "W1")
	assert.Equal(t, int64(5), entry.Quantity, "quantity must be unchanged, never clamped")
	assert.Equal(t, int64(2), entry.ReservedQuantity)
}

// Concurrent reservations against one entry must hand out exactly the
// available stock, no more.
func TestTryReserve_ConcurrentNeverOversells(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	const workers = 50
	var wg sync.WaitGroup
	granted := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.TryReserve(context.Background(), "P1", "W1", 1); err == nil {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	assert.Equal(t, 10, len(granted), "exactly the available stock must be granted")
	entry := store.Entry("P1", "W1")
	assert.Equal(t, int64(0), entry.Quantity)
	assert.Equal(t, int64(10), entry.ReservedQuantity)
}

func TestAdjustDirect_CreatesEntryLazilyWithThreshold(t *testing.T) {
	l, store, _ := newLedger(t)

	entry, err := l.AdjustDirect(context.Background(), "P1", "W2", 15, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(15), entry.Quantity)
	assert.Equal(t, int64(5), entry.LowStockThreshold)
	assert.Equal(t, int64(0), entry.ReservedQuantity)

	movements := store.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeADJUST, movements[0].Type)
}

func TestAdjustDirect_NegativeBeyondAvailableFails(t *testing.T) {
	l, store, _ := newLedger(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	_, err := l.AdjustDirect(context.Background(), "P1", "W1", -11, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), store.Entry("P1", "W1").Quantity)

	_, err = l.AdjustDirect(context.Background(), "P1", "W9", -1, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "debit on a missing entry must fail")
}

func TestAdjustDirect_ZeroDeltaRejected(t *testing.T) {
	l, _, _ := newLedger(t)
	_, err := l.AdjustDirect(context.Background(), "P1", "W1", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Quantity and ReservedQuantity never go negative across any mix of operations.
func TestLedger_InvariantsHoldAcrossOperations(t *testing.T) {
	l, store, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.SetLevel(ctx, "P1", "W1", 8, 2)
	require.NoError(t, err)
	require.NoError(t, l.TryReserve(ctx, "P1", "W1", 8))
	assert.ErrorIs(t, l.TryReserve(ctx, "P1", "W1", 1), domain.ErrInsufficientStock)
	_, err = l.AdjustDirect(ctx, "P1", "W1", -1, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.NoError(t, l.Release(ctx, "P1", "W1", 8))

	entry := store.Entry("P1", "W1")
	assert.GreaterOrEqual(t, entry.Quantity, int64(0))
	assert.GreaterOrEqual(t, entry.ReservedQuantity, int64(0))
	assert.Equal(t, int64(8), entry.Quantity)
}

// unlockedStore mimics the real store's behavior for a key with no row yet: a
// locking read finds nothing to lock, so concurrent transactions can all
// observe the entry as missing before any of them writes. MemStore cannot
// reproduce this because its Run holds one mutex for the whole transaction.
type unlockedStore struct {
	mu       sync.Mutex
	entries  map[string]*entity.StockEntry
	bothRead *sync.WaitGroup
}

func (s *unlockedStore) Run(_ context.Context, fn func(
	stockRepo repository.StockEntryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return fn(&unlockedStockRepo{s: s}, discardMovements{})
}

type unlockedStockRepo struct {
	s *unlockedStore
}

func (r *unlockedStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[productID+"|"+warehouseID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *unlockedStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	e, err := r.Get(ctx, productID, warehouseID)
	if e == nil && err == nil {
		// Nothing was locked: let every concurrent reader past this point
		// before any of them writes.
		r.s.bothRead.Done()
		r.s.bothRead.Wait()
	}
	return e, err
}

func (r *unlockedStockRepo) Upsert(_ context.Context, entry *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.entries[entry.ProductID+"|"+entry.WarehouseID] = &cp
	return nil
}

func (r *unlockedStockRepo) AddQuantity(_ context.Context, productID, warehouseID string, delta, newEntryThreshold int64) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := productID + "|" + warehouseID
	e, ok := r.s.entries[key]
	if !ok {
		e = &entity.StockEntry{ProductID: productID, WarehouseID: warehouseID, LowStockThreshold: newEntryThreshold}
		r.s.entries[key] = e
	}
	e.Quantity += delta
	cp := *e
	return &cp, nil
}

func (r *unlockedStockRepo) ListByProduct(context.Context, string) ([]*entity.StockEntry, error) {
	return nil, nil
}

func (r *unlockedStockRepo) ListRecentlyUpdated(context.Context, int) ([]*entity.StockEntry, error) {
	return nil, nil
}

type discardMovements struct{}

func (discardMovements) Create(context.Context, *entity.StockMovement) error { return nil }

func (discardMovements) ListByProduct(context.Context, string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

// Two concurrent credits that both find the key missing must both land: the
// second writer adds to the first one's committed quantity instead of
// overwriting it with a value computed from the empty read.
func TestAdjustDirect_ConcurrentLazyCreateKeepsBothCredits(t *testing.T) {
	var bothRead sync.WaitGroup
	bothRead.Add(2)
	store := &unlockedStore{entries: make(map[string]*entity.StockEntry), bothRead: &bothRead}
	l := ledger.New(store, testsupport.NewEventRecorder(), logger.Nop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.AdjustDirect(context.Background(), "P1", "W2", 5, 3)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	e := store.entries["P1|W2"]
	require.NotNil(t, e)
	assert.Equal(t, int64(10), e.Quantity)
	assert.Equal(t, int64(3), e.LowStockThreshold)
}

// Alerts for one key follow the order their level sets committed: the last
// alert delivered carries the final stored quantity.
func TestSetLevel_AlertsFollowCommitOrderPerKey(t *testing.T) {
	l, store, recorder := newLedger(t)

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(q int64) {
			defer wg.Done()
			_, err := l.SetLevel(context.Background(), "P1", "W1", q, 1000)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	alerts := recorder.ByType(events.TypeLowStockAlert)
	require.Len(t, alerts, 20)
	last := alerts[len(alerts)-1].(events.LowStockAlert)
	assert.Equal(t, store.Entry("P1", "W1").Quantity, last.CurrentStock)
}
