package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// Ledger owns every StockEntry mutation. Higher-level components (fulfillment,
// transfers) never touch entry fields directly; they go through these four
// operations, each of which is one transaction with the entry row locked.
type Ledger struct {
	tx       TxRunner
	notifier Notifier
	log      *logger.Logger

	keyMu sync.Mutex
	keys  map[string]*sync.Mutex
}

// New builds the ledger.
func New(tx TxRunner, notifier Notifier, log *logger.Logger) *Ledger {
	return &Ledger{tx: tx, notifier: notifier, log: log, keys: make(map[string]*sync.Mutex)}
}

// lockKey takes the per-(product, warehouse) mutex. Held across a mutation
// and its event emit, it keeps alerts for one key in the order their
// transactions committed. Entries are never deleted, so neither are locks.
func (l *Ledger) lockKey(productID, warehouseID string) *sync.Mutex {
	k := productID + "|" + warehouseID
	l.keyMu.Lock()
	m, ok := l.keys[k]
	if !ok {
		m = &sync.Mutex{}
		l.keys[k] = m
	}
	l.keyMu.Unlock()
	m.Lock()
	return m
}

// SetLevel upserts the entry for (productID, warehouseID): a new entry starts
// with ReservedQuantity=0; an existing one keeps its reserved count and gets
// quantity and threshold overwritten. After commit, a low-stock alert is
// emitted when quantity <= threshold; the boundary value itself fires.
func (l *Ledger) SetLevel(ctx context.Context, productID, warehouseID string, quantity, threshold int64) (*entity.StockEntry, error) {
	if productID == "" || warehouseID == "" || quantity < 0 || threshold < 0 {
		return nil, domain.ErrInvalidInput
	}

	mu := l.lockKey(productID, warehouseID)
	defer mu.Unlock()

	var result *entity.StockEntry
	err := l.tx.Run(ctx, func(stockRepo repository.StockEntryRepository, movementRepo repository.StockMovementRepository) error {
		entry, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if entry == nil {
			entry = &entity.StockEntry{ProductID: productID, WarehouseID: warehouseID}
		}
		entry.Quantity = quantity
		entry.LowStockThreshold = threshold
		entry.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}
		result = entry
		return movementRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.NewString(),
			TransactionID: uuid.NewString(),
			ProductID:     productID,
			WarehouseID:   warehouseID,
			Type:          entity.MovementTypeSET,
			Quantity:      quantity,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	if result.Quantity <= result.LowStockThreshold {
		l.notifier.Broadcast(events.NewLowStockAlert(productID, warehouseID, result.Quantity))
	}
	return result, nil
}

// TryReserve moves amount units from the available pool into the reserved
// pool. It is the only legal way stock leaves "available" for an order.
// Fails with ErrInsufficientStock when the entry is missing or short.
func (l *Ledger) TryReserve(ctx context.Context, productID, warehouseID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}

	return l.tx.Run(ctx, func(stockRepo repository.StockEntryRepository, movementRepo repository.StockMovementRepository) error {
		entry, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if entry == nil || entry.Quantity < amount {
			return domain.ErrInsufficientStock
		}
		now := time.Now().UTC()
		entry.Quantity -= amount
		entry.ReservedQuantity += amount
		entry.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}
		return movementRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.NewString(),
			TransactionID: uuid.NewString(),
			ProductID:     productID,
			WarehouseID:   warehouseID,
			Type:          entity.MovementTypeRESERVE,
			Quantity:      -amount,
			CreatedAt:     now,
		})
	})
}

// Release is the inverse of TryReserve, used to roll back reservations of an
// order that cannot complete. Releasing more than is reserved means the
// caller broke the reserve/release pairing: that is surfaced as
// ErrInvalidState, never clamped.
func (l *Ledger) Release(ctx context.Context, productID, warehouseID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}

	err := l.tx.Run(ctx, func(stockRepo repository.StockEntryRepository, movementRepo repository.StockMovementRepository) error {
		entry, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if entry == nil || entry.ReservedQuantity < amount {
			return domain.ErrInvalidState
		}
		now := time.Now().UTC()
		entry.ReservedQuantity -= amount
		entry.Quantity += amount
		entry.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}
		return movementRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.NewString(),
			TransactionID: uuid.NewString(),
			ProductID:     productID,
			WarehouseID:   warehouseID,
			Type:          entity.MovementTypeRELEASE,
			Quantity:      amount,
			CreatedAt:     now,
		})
	})
	if err == domain.ErrInvalidState {
		l.log.Error().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Int64("amount", amount).
			Msg("release exceeds reserved quantity")
	}
	return err
}

// AdjustDirect adds or removes available quantity without touching the
// reserved pool; transfers use it for both legs. A positive delta on a
// missing entry creates it lazily with newEntryThreshold as its low-stock
// threshold. A delta that would leave quantity negative fails with
// ErrInsufficientStock and changes nothing. Returns the resulting entry.
func (l *Ledger) AdjustDirect(ctx context.Context, productID, warehouseID string, delta, newEntryThreshold int64) (*entity.StockEntry, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.StockEntry
	err := l.tx.Run(ctx, func(stockRepo repository.StockEntryRepository, movementRepo repository.StockMovementRepository) error {
		entry, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if entry == nil {
			if delta < 0 {
				return domain.ErrInsufficientStock
			}
			// A missing row gives FOR UPDATE nothing to lock, so another
			// transaction may create the entry first. AddQuantity applies
			// the delta relative to whatever that transaction committed.
			entry, err = stockRepo.AddQuantity(ctx, productID, warehouseID, delta, newEntryThreshold)
			if err != nil {
				return err
			}
		} else {
			if entry.Quantity+delta < 0 {
				return domain.ErrInsufficientStock
			}
			entry.Quantity += delta
			entry.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, entry); err != nil {
				return err
			}
		}
		result = entry
		return movementRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.NewString(),
			TransactionID: uuid.NewString(),
			ProductID:     productID,
			WarehouseID:   warehouseID,
			Type:          entity.MovementTypeADJUST,
			Quantity:      delta,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
