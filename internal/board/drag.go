package board

import (
	"math"

	"github.com/tavola/backoffice/internal/models"
)

// DragController mediates the press-drag-release gesture and resolves it to
// a candidate transition. It never mutates orders itself; a valid
// cross-column drop emits exactly one PendingTransition into the gate.
type DragController struct {
	store     *Store
	gate      *Gate
	threshold float64

	pressedID string
	distance  float64
	activated bool
}

// NewDragController creates a controller with the given activation threshold
func NewDragController(store *Store, gate *Gate, threshold float64) *DragController {
	return &DragController{
		store:     store,
		gate:      gate,
		threshold: threshold,
	}
}

// Dragging returns the ID of the order currently being dragged, or "" when
// no gesture has passed the activation threshold.
func (d *DragController) Dragging() string {
	if !d.activated {
		return ""
	}

	return d.pressedID
}

// Start captures the pressed order. Unknown IDs no-op, as does pressing
// while a transition is already awaiting confirmation.
func (d *DragController) Start(orderID string) {
	if d.gate.State() != GateIdle {
		return
	}

	if d.store.Get(orderID) == nil {
		return
	}

	d.pressedID = orderID
	d.distance = 0
	d.activated = false
}

// Move accumulates pointer travel. The gesture only becomes a drag once the
// distance passes the threshold; anything shorter is a click.
func (d *DragController) Move(dx, dy float64) {
	if d.pressedID == "" {
		return
	}

	d.distance += math.Hypot(dx, dy)

	if d.distance >= d.threshold {
		d.activated = true
	}
}

// End resolves the release. A drop outside any droppable region, a drop on
// the order's own column, or a press that never became a drag all discard
// the gesture silently.
func (d *DragController) End(dropTargetID string) {
	pressedID := d.pressedID
	activated := d.activated

	d.pressedID = ""
	d.distance = 0
	d.activated = false

	if pressedID == "" || !activated {
		return
	}

	order := d.store.Get(pressedID)

	if order == nil {
		return
	}

	target, ok := ResolveDropTarget(dropTargetID, d.store.Orders())

	if !ok {
		return
	}

	if !ShouldEmitTransition(order, target) {
		return
	}

	d.gate.Propose(&PendingTransition{
		OrderID:      order.ID,
		TargetStatus: target,
		Order:        *order,
	})
}

// ResolveDropTarget maps a drop target identifier to a pipeline stage. The
// target is either a column ID or another order's card, which inherits that
// order's current column.
func ResolveDropTarget(dropTargetID string, orders []*models.Order) (models.OrderStatus, bool) {
	for _, col := range Columns() {
		if string(col.ID) == dropTargetID {
			return col.ID, true
		}
	}

	for _, order := range orders {
		if order.ID == dropTargetID {
			return order.Status, true
		}
	}

	return "", false
}

// ShouldEmitTransition reports whether a resolved drop is an actual stage
// change. Dropping within the same column is a no-op.
func ShouldEmitTransition(order *models.Order, target models.OrderStatus) bool {
	return order.Status != target
}
