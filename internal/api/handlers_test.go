package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tavola/backoffice/internal/models"
)

func TestParseOrderFilters(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantStatus models.OrderStatus
		wantDate   string
		wantErr    bool
	}{
		{"no filters", "/api/v1/orders", "", "", false},
		{"status only", "/api/v1/orders?status=PREPARING", models.OrderStatusPreparing, "", false},
		{"lowercase status", "/api/v1/orders?status=ready", models.OrderStatusReady, "", false},
		{"date only", "/api/v1/orders?date=2024-03-01", "", "2024-03-01", false},
		{"status and date", "/api/v1/orders?status=NEW&date=2024-03-01", models.OrderStatusNew, "2024-03-01", false},
		{"unknown status", "/api/v1/orders?status=CANCELLED", "", "", true},
		{"bad date", "/api/v1/orders?date=01/03/2024", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)

			status, date, err := parseOrderFilters(r)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.url)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", status, tt.wantStatus)
			}

			if tt.wantDate == "" {
				if date != nil {
					t.Fatalf("date = %v, want nil", date)
				}
				return
			}

			want, _ := time.Parse("2006-01-02", tt.wantDate)

			if date == nil || !date.Equal(want) {
				t.Fatalf("date = %v, want %v", date, want)
			}
		})
	}
}

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		input      string
		wantPeriod string
		wantWindow time.Duration
		wantOK     bool
	}{
		{"daily", "daily", 24 * time.Hour, true},
		{"weekly", "weekly", 7 * 24 * time.Hour, true},
		{"monthly", "monthly", 30 * 24 * time.Hour, true},
		{"", "weekly", 7 * 24 * time.Hour, true},
		{"week", "", 0, false},
		{"yearly", "", 0, false},
	}

	for _, tt := range tests {
		t.Run("period "+tt.input, func(t *testing.T) {
			period, window, ok := periodWindow(tt.input)

			if ok != tt.wantOK || period != tt.wantPeriod || window != tt.wantWindow {
				t.Fatalf("periodWindow(%q) = (%s, %v, %v), want (%s, %v, %v)",
					tt.input, period, window, ok, tt.wantPeriod, tt.wantWindow, tt.wantOK)
			}
		})
	}
}
