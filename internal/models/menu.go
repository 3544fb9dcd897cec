package models

import (
	"time"
)

// MenuItem represents a dish or product on the restaurant menu
type MenuItem struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
	Category    string    `db:"category" json:"category"`
	Available   bool      `db:"available" json:"available"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewMenuItem creates a new menu item
func NewMenuItem(name, description string, price float64, category string, available bool, imageURL string) *MenuItem {
	now := GetCurrentTime()

	return &MenuItem{
		ID:          GenerateID("itm"),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Available:   available,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
