package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/pkg/logger"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo  *repository.OrderRepository
	outboxRepo *repository.OutboxRepository
	logger     logger.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo *repository.OrderRepository,
	outboxRepo *repository.OutboxRepository,
	logger logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOrder creates a new order entering the pipeline at NEW and publishes
// an outbox message in the same transaction
func (s *OrderService) CreateOrder(
	ctx context.Context,
	customerName string,
	customerPhone string,
	items []models.OrderItem,
	total float64,
) (*models.Order, error) {
	order := models.NewOrder(customerName, customerPhone, items, total)

	outboxMsg, err := models.NewOrderCreatedEvent(order)

	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err)
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)

	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = s.orderRepo.CreateInTx(tx, order); err != nil {
		return nil, err
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Order created", "orderID", order.ID, "outboxID", outboxMsg.ID)
	return order, nil
}

// UpdateOrderStatus moves an order to a new pipeline stage. Idempotent: a
// repeat of the current status is a success no-op and publishes nothing.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)

	if err != nil {
		return nil, err
	}

	if order.Status == newStatus {
		return order, nil
	}

	oldStatus := order.Status
	order.Status = newStatus
	order.UpdatedAt = models.GetCurrentTime()

	outboxMsg, err := models.NewOrderStatusChangedEvent(order, oldStatus)

	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err)
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)

	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = s.orderRepo.UpdateStatusInTx(tx, order); err != nil {
		return nil, err
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Order status updated",
		"orderID", order.ID,
		"oldStatus", oldStatus,
		"newStatus", newStatus,
		"messageID", outboxMsg.ID)

	return order, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// GetAllOrders retrieves all orders, optionally filtered by status and
// creation day
func (s *OrderService) GetAllOrders(ctx context.Context, status models.OrderStatus, date *time.Time) ([]*models.Order, error) {
	if status == "" && date == nil {
		return s.orderRepo.GetAll(ctx)
	}
	return s.orderRepo.GetFiltered(ctx, status, date)
}

// DeleteOrder removes an order entirely. This is the destructive admin
// action, not a pipeline transition; it also publishes an outbox event.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orderRepo.GetByID(ctx, id)

	if err != nil {
		return err
	}

	outboxMsg, err := models.NewOrderDeletedEvent(order)

	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err)
		return fmt.Errorf("failed to create outbox message: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)

	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = s.orderRepo.DeleteInTx(tx, id); err != nil {
		return err
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Order deleted", "orderID", id)
	return nil
}
