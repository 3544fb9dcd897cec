package board

import (
	"context"
	"time"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

// OrderService is the remote collaborator that persists status transitions.
// The HTTP client implements it in production; tests substitute a fake.
type OrderService interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error)
}

// Notifier is the toast surface. Fire-and-forget, never affects control flow.
type Notifier interface {
	Success(title, description string)
	Failure(title, description string)
}

// PendingTransition is a proposed status change awaiting confirmation. At
// most one exists at a time, held by the gate.
type PendingTransition struct {
	OrderID      string
	TargetStatus models.OrderStatus
	Order        models.Order // snapshot at drop time, for the confirmation prompt
}

// Config tunes the board's interaction behavior
type Config struct {
	// DragThreshold is the minimum gesture distance, in pixels, before a
	// press is treated as a drag rather than a click.
	DragThreshold float64
	// RequestTimeout bounds the confirm submission; a late response counts
	// as a failure.
	RequestTimeout time.Duration
	// TrustServerTime adopts the server's updatedAt on commit instead of
	// stamping with the local clock.
	TrustServerTime bool
}

// DefaultConfig returns the stock board configuration
func DefaultConfig() Config {
	return Config{
		DragThreshold:   8,
		RequestTimeout:  10 * time.Second,
		TrustServerTime: true,
	}
}

// Board owns the order pipeline view: the entity store, the drag controller
// and the confirmation gate, wired against a remote order service.
type Board struct {
	store *Store
	drag  *DragController
	gate  *Gate
}

// New creates a board backed by the given order service and notifier
func New(svc OrderService, notifier Notifier, cfg Config, logger logger.Logger) *Board {
	store := NewStore()
	gate := NewGate(store, svc, notifier, cfg, logger)
	drag := NewDragController(store, gate, cfg.DragThreshold)

	return &Board{
		store: store,
		drag:  drag,
		gate:  gate,
	}
}

// Load populates the store from the order service. Call once at view mount.
func (b *Board) Load(ctx context.Context) {
	b.store.Load(ctx, b.gate.svc, b.gate.notifier)
}

// Orders returns the store's current order list
func (b *Board) Orders() []*models.Order {
	return b.store.Orders()
}

// Columns returns the rendered column views in pipeline order
func (b *Board) Columns() []ColumnView {
	return RenderColumns(b.store.Orders())
}

// StartDrag begins a press gesture on the given order card
func (b *Board) StartDrag(orderID string) {
	b.drag.Start(orderID)
}

// MoveDrag feeds pointer movement into the active gesture
func (b *Board) MoveDrag(dx, dy float64) {
	b.drag.Move(dx, dy)
}

// Drop ends the gesture over the given target (a column or another card)
func (b *Board) Drop(dropTargetID string) {
	b.drag.End(dropTargetID)
}

// Pending returns the transition awaiting confirmation, if any
func (b *Board) Pending() *PendingTransition {
	return b.gate.Pending()
}

// GateState reports where the confirmation gate currently is
func (b *Board) GateState() GateState {
	return b.gate.State()
}

// Confirm submits the pending transition to the order service
func (b *Board) Confirm(ctx context.Context) {
	b.gate.Confirm(ctx)
}

// Cancel discards the pending transition without any network call
func (b *Board) Cancel() {
	b.gate.Cancel()
}
