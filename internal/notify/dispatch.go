package notify

import (
	"context"

	"gorodskoybaton/bot/internal/domain"

	log "github.com/sirupsen/logrus"
)

// OperatorNotifier sends a completed-order summary to the operator.
type OperatorNotifier interface {
	NotifyOperator(ctx context.Context, order *domain.Order) error
}

// LedgerAppender appends one completed-order row to the ledger.
type LedgerAppender interface {
	AppendOrder(ctx context.Context, order *domain.Order) error
}

// OrderArchiver persists the completed order locally.
type OrderArchiver interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
}

// Dispatcher fans a completed order out to the operator, the ledger and
// the optional archive. Every attempt is isolated: one failing target
// never blocks another, failures are logged and not retried, and the
// user-facing success path does not depend on any of them.
type Dispatcher struct {
	operator OperatorNotifier
	ledger   LedgerAppender
	archive  OrderArchiver
}

// NewDispatcher wires the dispatch targets; any of them may be nil.
func NewDispatcher(operator OperatorNotifier, ledger LedgerAppender, archive OrderArchiver) *Dispatcher {
	return &Dispatcher{operator: operator, ledger: ledger, archive: archive}
}

// Dispatch attempts every configured target for one completed order.
func (d *Dispatcher) Dispatch(ctx context.Context, order *domain.Order) {
	if d.operator != nil {
		if err := d.operator.NotifyOperator(ctx, order); err != nil {
			log.Errorf("Failed to notify operator about order %d: %v", order.ID, err)
		}
	}

	if d.ledger != nil {
		if err := d.ledger.AppendOrder(ctx, order); err != nil {
			log.Errorf("Failed to append order %d to ledger: %v", order.ID, err)
		}
	}

	if d.archive != nil {
		if err := d.archive.SaveOrder(ctx, order); err != nil {
			log.Errorf("Failed to archive order %d: %v", order.ID, err)
		}
	}
}
