package board

import (
	"github.com/tavola/backoffice/internal/models"
)

// Column is one fixed stage of the preparation pipeline. Its ID doubles as
// the drop target identifier for the column itself.
type Column struct {
	ID    models.OrderStatus
	Title string
}

// Columns returns the four pipeline stages in display order
func Columns() []Column {
	return []Column{
		{ID: models.OrderStatusNew, Title: "New"},
		{ID: models.OrderStatusPreparing, Title: "Preparing"},
		{ID: models.OrderStatusReady, Title: "Ready"},
		{ID: models.OrderStatusDelivered, Title: "Delivered"},
	}
}

// ColumnTitle returns the display title for a pipeline stage, falling back
// to the raw value for anything outside the pipeline.
func ColumnTitle(status models.OrderStatus) string {
	for _, col := range Columns() {
		if col.ID == status {
			return col.Title
		}
	}

	return string(status)
}

// ColumnView is a column together with the orders currently in it. An empty
// Orders slice renders as the explicit "no orders" placeholder.
type ColumnView struct {
	Column
	Orders []*models.Order
}

// FilterByStatus returns the orders in the given stage, preserving the
// collection's relative order. Never re-sorts.
func FilterByStatus(orders []*models.Order, status models.OrderStatus) []*models.Order {
	filtered := make([]*models.Order, 0)

	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}

	return filtered
}

// RenderColumns buckets the orders into the four pipeline columns
func RenderColumns(orders []*models.Order) []ColumnView {
	columns := Columns()
	views := make([]ColumnView, 0, len(columns))

	for _, col := range columns {
		views = append(views, ColumnView{
			Column: col,
			Orders: FilterByStatus(orders, col.ID),
		})
	}

	return views
}
