package ledger

import (
	"context"

	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/internal/events"
)

// TxRunner executes a function inside one database transaction, passing
// repositories bound to that transaction. Every ledger operation runs as a
// single Run call: row lock, mutation, audit row, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockEntryRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// Notifier receives events after the producing operation has committed.
type Notifier interface {
	Broadcast(ev events.Event)
}
