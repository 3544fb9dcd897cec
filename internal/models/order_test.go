package models

import (
	"testing"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{"NEW", OrderStatusNew, false},
		{"preparing", OrderStatusPreparing, false},
		{"Ready", OrderStatusReady, false},
		{" delivered ", OrderStatusDelivered, false},
		{"", "", true},
		{"CANCELLED", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOrderStatus(%q) = %s, want error", tt.input, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseOrderStatus(%q) unexpected error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Fatalf("ParseOrderStatus(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewOrder_EntersPipelineAtNew(t *testing.T) {
	order := NewOrder("Maria Silva", "+5511999990000", []OrderItem{
		{Name: "Margherita", Quantity: 1, Price: 42.5},
	}, 42.5)

	if order.Status != OrderStatusNew {
		t.Fatalf("status = %s, want NEW", order.Status)
	}

	if order.ID == "" {
		t.Fatal("order must get an ID")
	}

	if !order.UpdatedAt.Equal(order.CreatedAt) {
		t.Fatal("createdAt and updatedAt must match at creation")
	}
}

func TestOrderItems_ScanRoundTrip(t *testing.T) {
	items := OrderItems{
		{Name: "Margherita", Quantity: 2, Price: 42.5, Notes: "extra basil"},
	}

	value, err := items.Value()

	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var scanned OrderItems

	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(scanned) != 1 || scanned[0] != items[0] {
		t.Fatalf("round trip mismatch: %+v", scanned)
	}
}
