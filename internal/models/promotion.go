package models

import (
	"time"
)

// DiscountType is how a promotion's discount value is applied
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// Promotion represents a time-bounded discount campaign
type Promotion struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Description  string       `db:"description" json:"description,omitempty"`
	Discount     float64      `db:"discount" json:"discount"`
	DiscountType DiscountType `db:"discount_type" json:"discount_type"`
	ValidFrom    time.Time    `db:"valid_from" json:"valid_from"`
	ValidUntil   time.Time    `db:"valid_until" json:"valid_until"`
	Active       bool         `db:"active" json:"active"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// NewPromotion creates a new promotion
func NewPromotion(name, description string, discount float64, discountType DiscountType, validFrom, validUntil time.Time, active bool) *Promotion {
	now := GetCurrentTime()

	return &Promotion{
		ID:           GenerateID("prm"),
		Name:         name,
		Description:  description,
		Discount:     discount,
		DiscountType: discountType,
		ValidFrom:    validFrom,
		ValidUntil:   validUntil,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
