package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// StockReserver is the slice of the ledger the engine needs.
type StockReserver interface {
	TryReserve(ctx context.Context, productID, warehouseID string, amount int64) error
	Release(ctx context.Context, productID, warehouseID string, amount int64) error
}

// Notifier receives events after the order reaches a terminal state.
type Notifier interface {
	Broadcast(ev events.Event)
}

// Item is one requested line: product and quantity.
type Item struct {
	ProductID string
	Quantity  int64
}

// Result is the terminal outcome of a fulfillment attempt. RejectionCause is
// set only when the order was rejected and names the product that lacked
// stock.
type Result struct {
	Order          *entity.Order
	RejectionCause string
}

// Completed reports whether every item was reserved.
func (r *Result) Completed() bool {
	return r.Order != nil && r.Order.Status == entity.OrderStatusCompleted
}

// Engine converts a requested item list into ledger reservations,
// all-or-nothing. Reservations are acquired item by item; when one fails, the
// ones already granted are released in reverse order so the ledger returns to
// its exact pre-attempt state. Callers never see a partial order.
type Engine struct {
	ledger        StockReserver
	orderRepo     repository.OrderRepository
	backorderRepo repository.BackorderRepository
	notifier      Notifier
	log           *logger.Logger
}

// NewEngine builds the fulfillment engine.
func NewEngine(
	ledger StockReserver,
	orderRepo repository.OrderRepository,
	backorderRepo repository.BackorderRepository,
	notifier Notifier,
	log *logger.Logger,
) *Engine {
	return &Engine{
		ledger:        ledger,
		orderRepo:     orderRepo,
		backorderRepo: backorderRepo,
		notifier:      notifier,
		log:           log,
	}
}

// backorderLeadTime is the default expected-fulfillment horizon recorded on a
// backorder created from a rejected order.
const backorderLeadTime = 7 * 24 * time.Hour

// Fulfill runs one attempt: PENDING order, sequential reservations, then a
// single transition to COMPLETED or REJECTED. A rejection is a business
// outcome, not an error; the error return is reserved for store failures.
func (e *Engine) Fulfill(ctx context.Context, customerID, warehouseID string, items []Item) (*Result, error) {
	if err := validateItems(customerID, warehouseID, items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		WarehouseID: warehouseID,
		Status:      entity.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, it := range items {
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	if err := e.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	granted := make([]Item, 0, len(items))
	for _, it := range items {
		err := e.ledger.TryReserve(ctx, it.ProductID, warehouseID, it.Quantity)
		if err == nil {
			granted = append(granted, it)
			continue
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return e.reject(ctx, order, it, granted)
		}
		// Store failure mid-attempt: undo what we already hold before
		// surfacing it, so no half-applied state survives.
		e.rollback(ctx, warehouseID, granted)
		return nil, err
	}

	if err := e.orderRepo.SetStatus(ctx, order.ID, entity.OrderStatusCompleted, ""); err != nil {
		e.rollback(ctx, warehouseID, granted)
		return nil, err
	}
	order.Status = entity.OrderStatusCompleted
	e.notifier.Broadcast(events.NewOrderCompleted(order.ID, string(entity.OrderStatusCompleted)))
	e.log.Info().Str("order_id", order.ID).Int("items", len(items)).Msg("order completed")
	return &Result{Order: order}, nil
}

// reject rolls back granted reservations, marks the order REJECTED with the
// failing item as cause and records a backorder for the unmet demand.
func (e *Engine) reject(ctx context.Context, order *entity.Order, failed Item, granted []Item) (*Result, error) {
	e.rollback(ctx, order.WarehouseID, granted)

	cause := fmt.Sprintf("insufficient stock for product %s", failed.ProductID)
	if err := e.orderRepo.SetStatus(ctx, order.ID, entity.OrderStatusRejected, cause); err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusRejected
	order.RejectionReason = cause

	backorder := &entity.Backorder{
		ID:           uuid.NewString(),
		ProductID:    failed.ProductID,
		CustomerID:   order.CustomerID,
		Quantity:     failed.Quantity,
		ExpectedDate: time.Now().UTC().Add(backorderLeadTime),
		Status:       entity.BackorderStatusOpen,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.backorderRepo.Create(ctx, backorder); err != nil {
		// The rejection itself already committed; losing the backorder record
		// is logged but does not turn the outcome into an error.
		e.log.Error().Err(err).Str("order_id", order.ID).Msg("record backorder")
	}

	e.log.Info().Str("order_id", order.ID).Str("cause", cause).Msg("order rejected")
	return &Result{Order: order, RejectionCause: cause}, nil
}

// rollback releases granted reservations in reverse order of acquisition.
func (e *Engine) rollback(ctx context.Context, warehouseID string, granted []Item) {
	for i := len(granted) - 1; i >= 0; i-- {
		it := granted[i]
		if err := e.ledger.Release(ctx, it.ProductID, warehouseID, it.Quantity); err != nil {
			e.log.Error().Err(err).
				Str("product_id", it.ProductID).
				Str("warehouse_id", warehouseID).
				Int64("amount", it.Quantity).
				Msg("release during rollback")
		}
	}
}

func validateItems(customerID, warehouseID string, items []Item) error {
	if customerID == "" || warehouseID == "" || len(items) == 0 {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if _, dup := seen[it.ProductID]; dup {
			return domain.ErrInvalidInput
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}
