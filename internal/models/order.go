package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderStatus is a pipeline stage of an order
type OrderStatus string

// The four pipeline stages, in board order
const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// OrderStatuses returns all pipeline stages in board order
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusNew,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusDelivered,
	}
}

// ParseOrderStatus normalizes an incoming status value. Historical clients
// sent lowercase statuses, so matching is case-insensitive; the canonical
// form is uppercase end-to-end.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusNew:
		return OrderStatusNew, nil
	case OrderStatusPreparing:
		return OrderStatusPreparing, nil
	case OrderStatusReady:
		return OrderStatusReady, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// OrderItem is a single line item on an order
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes,omitempty"`
}

// OrderItems is stored as a JSONB column
type OrderItems []OrderItem

// Value implements driver.Valuer
func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

// Scan implements sql.Scanner
func (items *OrderItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into OrderItems", src)
	}
}

// Order represents a customer order moving through the board pipeline
type Order struct {
	ID            string      `db:"id" json:"id"`
	CustomerName  string      `db:"customer_name" json:"customer_name"`
	CustomerPhone string      `db:"customer_phone" json:"customer_phone"`
	Items         OrderItems  `db:"items" json:"items"`
	Total         float64     `db:"total" json:"total"`
	Status        OrderStatus `db:"status" json:"status"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// NewOrder creates a new order entering the pipeline at NEW
func NewOrder(customerName, customerPhone string, items []OrderItem, total float64) *Order {
	now := GetCurrentTime()

	return &Order{
		ID:            GenerateID("ord"),
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Items:         items,
		Total:         total,
		Status:        OrderStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
