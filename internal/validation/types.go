package validation

import (
	"time"
)

// OrderItemRequest is a line item in an intake request
type OrderItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Notes    string  `json:"notes,omitempty"`
}

// CreateOrderRequest is the payload for POST /orders
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerPhone string             `json:"customer_phone" validate:"required"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total         float64            `json:"total" validate:"gte=0"`
}

// UpdateOrderStatusRequest is the payload for PATCH /orders/{id}/status.
// The status string is parsed case-insensitively downstream.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// MenuItemRequest is the payload for creating or updating a menu item
type MenuItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// PromotionRequest is the payload for creating or updating a promotion
type PromotionRequest struct {
	Name         string    `json:"name" validate:"required"`
	Description  string    `json:"description,omitempty"`
	Discount     float64   `json:"discount" validate:"gt=0"`
	DiscountType string    `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
	ValidFrom    time.Time `json:"valid_from" validate:"required"`
	ValidUntil   time.Time `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	Active       bool      `json:"active"`
}

// TogglePromotionRequest is the payload for PATCH /promotions/{id}/toggle
type TogglePromotionRequest struct {
	Active bool `json:"active"`
}

// SendMessageRequest is the payload for POST /conversations/{id}/messages
type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}
