package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/internal/validation"
)

// parseOrderFilters reads the optional ?status= and ?date= (YYYY-MM-DD)
// filters from an order list request
func parseOrderFilters(r *http.Request) (models.OrderStatus, *time.Time, error) {
	var status models.OrderStatus

	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseOrderStatus(raw)

		if err != nil {
			return "", nil, fmt.Errorf("unknown order status %q", raw)
		}

		status = parsed
	}

	var date *time.Time

	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)

		if err != nil {
			return "", nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
		}

		date = &parsed
	}

	return status, date, nil
}

// getOrdersHandler lists orders, optionally filtered by ?status= and ?date=
func (s *Server) getOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, date, err := parseOrderFilters(r)

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.orderService.GetAllOrders(ctx, status, date)

	if err != nil {
		s.logger.Error("Failed to list orders", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: orders})
}

// createOrderHandler registers a new incoming order
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validation.CreateOrderRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Notes:    item.Notes,
		})
	}

	order, err := s.orderService.CreateOrder(ctx, req.CustomerName, req.CustomerPhone, items, req.Total)

	if err != nil {
		s.logger.Error("Failed to create order", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: order})
}

// getOrderByIDHandler returns an order by ID
func (s *Server) getOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	order, err := s.orderService.GetOrder(ctx, id)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.logger.Error("Failed to get order", "error", err, "orderID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to get order")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

// updateOrderStatusHandler moves an order through the preparation pipeline.
// The response carries the updated order so clients can adopt the server's
// timestamps rather than their own.
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	var req validation.UpdateOrderStatusRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	status, err := models.ParseOrderStatus(req.Status)

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Unknown order status: "+req.Status)
		return
	}

	order, err := s.orderService.UpdateOrderStatus(ctx, id, status)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.logger.Error("Failed to update order status", "error", err, "orderID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

// deleteOrderHandler removes an order entirely
func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	id := vars["id"]

	if err := s.orderService.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.logger.Error("Failed to delete order", "error", err, "orderID", id)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
