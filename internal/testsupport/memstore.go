// Package testsupport provides in-memory fakes for the persistence and
// notification ports, so engine behavior can be tested without PostgreSQL or
// Redis.
package testsupport

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/internal/events"
)

// MemStore is an in-memory stand-in for the PostgreSQL adapters. Its Run
// method mimics the transactional runner: the callback sees repositories over
// the shared state, and a callback error rolls the state back to the
// pre-transaction snapshot. One mutex covers everything, which also gives the
// per-key serialization the real store provides via row locks.
type MemStore struct {
	mu         sync.Mutex
	entries    map[string]*entity.StockEntry
	movements  []*entity.StockMovement
	orders     map[string]*entity.Order
	backorders []*entity.Backorder

	// FailUpsert makes stock writes (Upsert and AddQuantity) for the given
	// "product|warehouse" key fail, to exercise mid-operation store failures.
	FailUpsert map[string]error
}

// NewMemStore builds an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		entries:    make(map[string]*entity.StockEntry),
		orders:     make(map[string]*entity.Order),
		FailUpsert: make(map[string]error),
	}
}

func entryKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// SeedEntry installs a stock entry directly, bypassing the ledger.
func (s *MemStore) SeedEntry(e entity.StockEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	s.entries[entryKey(e.ProductID, e.WarehouseID)] = &e
}

// Entry returns a copy of the stored entry, or nil when absent.
func (s *MemStore) Entry(productID, warehouseID string) *entity.StockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryKey(productID, warehouseID)]
	if !ok {
		return nil
	}
	cp := *e
	return &cp
}

// Movements returns a copy of the audit trail in insertion order.
func (s *MemStore) Movements() []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// Backorders returns a copy of the stored backorders.
func (s *MemStore) Backorders() []*entity.Backorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Backorder, 0, len(s.backorders))
	for _, b := range s.backorders {
		cp := *b
		out = append(out, &cp)
	}
	return out
}

// Run implements ledger.TxRunner. The callback runs under the store lock with
// a snapshot taken first; an error restores the snapshot.
func (s *MemStore) Run(ctx context.Context, fn func(
	stockRepo repository.StockEntryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*entity.StockEntry, len(s.entries))
	for k, e := range s.entries {
		cp := *e
		snapshot[k] = &cp
	}
	movementsLen := len(s.movements)

	err := fn(&txStockRepo{s: s}, &txMovementRepo{s: s})
	if err != nil {
		s.entries = snapshot
		s.movements = s.movements[:movementsLen]
	}
	return err
}

// txStockRepo operates on the store without re-locking; it only exists inside Run.
type txStockRepo struct {
	s *MemStore
}

func (r *txStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	e, ok := r.s.entries[entryKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *txStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *txStockRepo) Upsert(_ context.Context, entry *entity.StockEntry) error {
	key := entryKey(entry.ProductID, entry.WarehouseID)
	if err, ok := r.s.FailUpsert[key]; ok {
		return err
	}
	cp := *entry
	r.s.entries[key] = &cp
	return nil
}

func (r *txStockRepo) AddQuantity(_ context.Context, productID, warehouseID string, delta, newEntryThreshold int64) (*entity.StockEntry, error) {
	key := entryKey(productID, warehouseID)
	if err, ok := r.s.FailUpsert[key]; ok {
		return nil, err
	}
	e, ok := r.s.entries[key]
	if !ok {
		e = &entity.StockEntry{
			ProductID:         productID,
			WarehouseID:       warehouseID,
			LowStockThreshold: newEntryThreshold,
		}
		r.s.entries[key] = e
	}
	e.Quantity += delta
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	return &cp, nil
}

func (r *txStockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, e := range r.s.entries {
		if e.ProductID == productID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *txStockRepo) ListRecentlyUpdated(_ context.Context, limit int) ([]*entity.StockEntry, error) {
	out := make([]*entity.StockEntry, 0, len(r.s.entries))
	for _, e := range r.s.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type txMovementRepo struct {
	s *MemStore
}

func (r *txMovementRepo) Create(_ context.Context, mov *entity.StockMovement) error {
	cp := *mov
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *txMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListRecentlyUpdated exposes the store as an analytics.StockReader.
func (s *MemStore) ListRecentlyUpdated(ctx context.Context, limit int) ([]*entity.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStockRepo{s: s}).ListRecentlyUpdated(ctx, limit)
}

// --- OrderRepository ---

var _ repository.OrderRepository = (*MemStore)(nil)
var _ repository.BackorderRepository = (*backorderRepoView)(nil)

// Create implements repository.OrderRepository.
func (s *MemStore) Create(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *order
	cp.Items = append([]entity.OrderItem(nil), order.Items...)
	s.orders[order.ID] = &cp
	return nil
}

// GetByID implements repository.OrderRepository.
func (s *MemStore) GetByID(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

// SetStatus implements repository.OrderRepository.
func (s *MemStore) SetStatus(_ context.Context, id string, status entity.OrderStatus, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	o.Status = status
	if reason != "" {
		o.RejectionReason = reason
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// ListByCustomer implements repository.OrderRepository.
func (s *MemStore) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			cp := *o
			cp.Items = append([]entity.OrderItem(nil), o.Items...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// backorderRepoView adapts the store to repository.BackorderRepository, whose
// Create signature collides with the order one on MemStore itself.
type backorderRepoView struct {
	s *MemStore
}

// BackorderRepo returns the store's BackorderRepository view.
func (s *MemStore) BackorderRepo() repository.BackorderRepository {
	return &backorderRepoView{s: s}
}

func (v *backorderRepoView) Create(ctx context.Context, b *entity.Backorder) error {
	return v.s.CreateBackorder(ctx, b)
}

func (v *backorderRepoView) List(ctx context.Context, limit, offset int) ([]*entity.Backorder, error) {
	return v.s.ListBackorders(ctx, limit, offset)
}

// CreateBackorder stores one backorder.
func (s *MemStore) CreateBackorder(_ context.Context, b *entity.Backorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.backorders = append(s.backorders, &cp)
	return nil
}

// ListBackorders returns backorders, newest first.
func (s *MemStore) ListBackorders(_ context.Context, limit, offset int) ([]*entity.Backorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Backorder, 0, len(s.backorders))
	for _, b := range s.backorders {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EventRecorder collects broadcast events for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventRecorder builds an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Broadcast implements the Notifier ports.
func (r *EventRecorder) Broadcast(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// ByType filters recorded events by their type discriminator.
func (r *EventRecorder) ByType(eventType string) []events.Event {
	var out []events.Event
	for _, ev := range r.Events() {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}
