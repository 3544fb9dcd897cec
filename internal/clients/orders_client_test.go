package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tavola/backoffice/internal/models"
	apperrors "github.com/tavola/backoffice/pkg/errors"
	"github.com/tavola/backoffice/pkg/logger"
	"github.com/tavola/backoffice/pkg/retry"
)

func newTestClient(baseURL string) *OrdersClient {
	client := NewOrdersClient(baseURL, time.Second, logger.Nop())
	// Keep tests fast
	client.retryConfig.BackoffStrategy = &retry.ConstantBackoff{Interval: time.Millisecond}
	return client
}

func TestListOrders(t *testing.T) {
	orders := []*models.Order{
		{ID: "1", CustomerName: "Maria Silva", Status: models.OrderStatusNew},
		{ID: "2", CustomerName: "Joao Souza", Status: models.OrderStatusReady},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": orders})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).ListOrders(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].ID != "1" || got[1].Status != models.OrderStatusReady {
		t.Fatalf("unexpected orders: %+v", got)
	}
}

func TestUpdateOrderStatus_ReturnsServerEntity(t *testing.T) {
	updatedAt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders/ord-1/status" || r.Method != http.MethodPatch {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		if body["status"] != "PREPARING" {
			t.Errorf("status in body = %q, want PREPARING", body["status"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": models.Order{
				ID:        "ord-1",
				Status:    models.OrderStatusPreparing,
				UpdatedAt: updatedAt,
			},
		})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).UpdateOrderStatus(context.Background(), "ord-1", models.OrderStatusPreparing)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != models.OrderStatusPreparing || !order.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestUpdateOrderStatus_NotFoundIsNotRetried(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Order not found"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).UpdateOrderStatus(context.Background(), "missing", models.OrderStatusReady)

	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}

	if calls != 1 {
		t.Fatalf("server hit %d times, want 1", calls)
	}
}

func TestListOrders_RetriesServerErrors(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": []*models.Order{}})
	}))
	defer srv.Close()

	orders, err := newTestClient(srv.URL).ListOrders(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 3 {
		t.Fatalf("server hit %d times, want 3", calls)
	}

	if len(orders) != 0 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestDoRequest_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	// Two full retry rounds of three attempts each trip the breaker
	client.ListOrders(context.Background())
	client.ListOrders(context.Background())

	_, err := client.doRequest(context.Background(), http.MethodGet, srv.URL+"/api/v1/orders", nil)

	if !errors.Is(err, apperrors.ErrServiceUnavailable) {
		t.Fatalf("error = %v, want service unavailable from open breaker", err)
	}
}
