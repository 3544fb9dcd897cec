package board

import (
	"context"
	"fmt"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

// GateState is where the confirmation gate currently sits
type GateState int

const (
	GateIdle                 GateState = iota // no pending transition
	GateAwaitingConfirmation                  // modal open, waiting on the user
	GateSubmitting                            // remote call in flight, controls disabled
)

// String returns a human-readable state name
func (s GateState) String() string {
	switch s {
	case GateIdle:
		return "idle"
	case GateAwaitingConfirmation:
		return "awaiting_confirmation"
	case GateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Gate holds at most one pending transition and enforces confirm-then-commit:
// the store is only mutated after the order service acknowledges the change.
// It cycles idle -> awaiting confirmation -> submitting -> idle for the
// lifetime of the board view.
type Gate struct {
	store    *Store
	svc      OrderService
	notifier Notifier
	cfg      Config
	logger   logger.Logger

	state   GateState
	pending *PendingTransition
}

// NewGate creates a gate in the idle state
func NewGate(store *Store, svc OrderService, notifier Notifier, cfg Config, logger logger.Logger) *Gate {
	return &Gate{
		store:    store,
		svc:      svc,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// State returns the gate's current state
func (g *Gate) State() GateState {
	return g.state
}

// Pending returns the transition awaiting confirmation, if any
func (g *Gate) Pending() *PendingTransition {
	return g.pending
}

// Propose installs a pending transition and opens the confirmation step. A
// proposal while the gate is not idle is ignored; the single pending
// transition already in flight wins.
func (g *Gate) Propose(pt *PendingTransition) {
	if g.state != GateIdle {
		return
	}

	g.pending = pt
	g.state = GateAwaitingConfirmation
}

// Cancel discards the pending transition. Purely local: the order is
// untouched and no network call is made.
func (g *Gate) Cancel() {
	if g.state != GateAwaitingConfirmation {
		return
	}

	g.pending = nil
	g.state = GateIdle
}

// Confirm submits the pending transition to the order service. On success
// the store's copy of the order is committed to the new stage; on failure
// the store is untouched and the user must redo the gesture to retry.
func (g *Gate) Confirm(ctx context.Context) {
	if g.state != GateAwaitingConfirmation {
		return
	}

	pt := g.pending
	g.state = GateSubmitting

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	updated, err := g.svc.UpdateOrderStatus(callCtx, pt.OrderID, pt.TargetStatus)

	g.pending = nil
	g.state = GateIdle

	stage := ColumnTitle(pt.TargetStatus)

	if err != nil {
		g.logger.Warn("Status transition rejected",
			"orderID", pt.OrderID,
			"targetStatus", pt.TargetStatus,
			"error", err)
		g.notifier.Failure("Failed to update order",
			fmt.Sprintf("Could not move %s's order to %s", pt.Order.CustomerName, stage))
		return
	}

	updatedAt := models.GetCurrentTime()

	if g.cfg.TrustServerTime && updated != nil {
		updatedAt = updated.UpdatedAt
	}

	g.store.applyStatus(pt.OrderID, pt.TargetStatus, updatedAt)

	g.notifier.Success("Order updated",
		fmt.Sprintf("%s's order moved to %s. Customer notified via WhatsApp.", pt.Order.CustomerName, stage))
}
