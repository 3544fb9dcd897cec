package validation

import (
	"testing"
	"time"
)

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		CustomerName:  "Maria Silva",
		CustomerPhone: "+5511999990000",
		Items: []OrderItemRequest{
			{Name: "Margherita", Quantity: 2, Price: 10.0},
			{Name: "Soda", Quantity: 1, Price: 5.5},
		},
		Total: 25.5, // 2*10 + 1*5.5
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateOrderRequest_TotalMismatch(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		CustomerName:  "Maria Silva",
		CustomerPhone: "+5511999990000",
		Items: []OrderItemRequest{
			{Name: "Margherita", Quantity: 1, Price: 10.0},
		},
		Total: 9.99,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for total mismatch, got nil")
	}
}

func TestCreateOrderRequest_MissingFields(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		Items: []OrderItemRequest{},
		Total: 0,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestPromotionRequest_InvalidInterval(t *testing.T) {
	v := New()

	now := time.Now()
	req := PromotionRequest{
		Name:         "Happy Hour",
		Discount:     10,
		DiscountType: "PERCENTAGE",
		ValidFrom:    now,
		ValidUntil:   now.Add(-time.Hour),
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for valid_until before valid_from, got nil")
	}
}

func TestPromotionRequest_UnknownDiscountType(t *testing.T) {
	v := New()

	now := time.Now()
	req := PromotionRequest{
		Name:         "Happy Hour",
		Discount:     10,
		DiscountType: "BOGOF",
		ValidFrom:    now,
		ValidUntil:   now.Add(24 * time.Hour),
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for unknown discount type, got nil")
	}
}
