package board

import (
	"context"
	"time"

	"github.com/tavola/backoffice/internal/models"
)

// Store owns the in-memory order list for the view's lifetime. It is
// populated once at load and mutated only by the gate's success path, so the
// confirm-then-commit invariant holds by construction.
type Store struct {
	orders []*models.Order
	loaded bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Load replaces the store's contents from the order service. On failure the
// store is left empty and a failure notification is surfaced; there is no
// retry loop, the user reloads the view instead.
func (s *Store) Load(ctx context.Context, svc OrderService, notifier Notifier) {
	orders, err := svc.ListOrders(ctx)

	if err != nil {
		s.orders = nil
		s.loaded = true
		notifier.Failure("Failed to load orders", err.Error())
		return
	}

	s.orders = orders
	s.loaded = true
}

// Orders returns a deep copy of the order list in fetch order. Callers
// cannot reach store-owned orders through it, so every mutation still goes
// through the gate.
func (s *Store) Orders() []*models.Order {
	out := make([]*models.Order, len(s.orders))

	for i, order := range s.orders {
		clone := *order
		clone.Items = append(models.OrderItems(nil), order.Items...)
		out[i] = &clone
	}

	return out
}

// Get returns the order with the given ID, or nil if unknown
func (s *Store) Get(orderID string) *models.Order {
	for _, order := range s.orders {
		if order.ID == orderID {
			return order
		}
	}

	return nil
}

// applyStatus commits a confirmed transition: a single-field status update
// plus the accompanying timestamp. Only the gate calls this.
func (s *Store) applyStatus(orderID string, status models.OrderStatus, updatedAt time.Time) {
	order := s.Get(orderID)

	if order == nil {
		return
	}

	order.Status = status
	order.UpdatedAt = updatedAt
}
