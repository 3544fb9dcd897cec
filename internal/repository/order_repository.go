package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tavola/backoffice/internal/database"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrDatabase = errors.New("database error")
)

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.Database, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// BeginTx starts a new database transaction
func (r *OrderRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)

	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return tx, nil
}

// Create inserts a new order into the database
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_name, customer_phone, items, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerName,
		order.CustomerPhone,
		order.Items,
		order.Total,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// CreateInTx inserts a new order within a transaction
func (r *OrderRepository) CreateInTx(tx *sql.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_name, customer_phone, items, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(
		query,
		order.ID,
		order.CustomerName,
		order.CustomerPhone,
		order.Items,
		order.Total,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order in transaction", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, items, total, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &order, nil
}

// GetAll retrieves all orders in creation order, the stable order the board renders
func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, items, total, status, created_at, updated_at
		FROM orders
		ORDER BY created_at ASC
	`

	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders, query)

	if err != nil {
		r.logger.Error("Failed to get all orders", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return orders, nil
}

// GetFiltered retrieves orders matching the optional status and creation-day
// filters, in creation order. A nil date means any day.
func (r *OrderRepository) GetFiltered(ctx context.Context, status models.OrderStatus, date *time.Time) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, items, total, status, created_at, updated_at
		FROM orders
		WHERE 1 = 1
	`

	args := []interface{}{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if date != nil {
		args = append(args, date.Format("2006-01-02"))
		query += fmt.Sprintf(" AND created_at::date = $%d::date", len(args))
	}

	query += " ORDER BY created_at ASC"

	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders, query, args...)

	if err != nil {
		r.logger.Error("Failed to get filtered orders", "error", err, "status", status)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return orders, nil
}

// UpdateStatusInTx updates an order's status within a transaction
func (r *OrderRepository) UpdateStatusInTx(tx *sql.Tx, order *models.Order) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(
		query,
		order.Status,
		order.UpdatedAt,
		order.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update order status", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteInTx removes an order within a transaction
func (r *OrderRepository) DeleteInTx(tx *sql.Tx, id string) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := tx.Exec(query, id)

	if err != nil {
		r.logger.Error("Failed to delete order", "error", err, "orderID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count counts the total number of orders
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders`

	err := r.db.DB.GetContext(ctx, &count, query)

	if err != nil {
		r.logger.Error("Failed to count orders", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return count, nil
}

// CountByStatus returns the number of orders in each pipeline stage
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`

	rows := []struct {
		Status models.OrderStatus `db:"status"`
		Count  int                `db:"count"`
	}{}

	if err := r.db.DB.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to count orders by status", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	counts := make(map[models.OrderStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

// TotalsSince returns the order count and summed revenue since the given time
func (r *OrderRepository) TotalsSince(ctx context.Context, since time.Time) (int, float64, error) {
	query := `
		SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue
		FROM orders
		WHERE created_at >= $1
	`

	row := struct {
		Count   int     `db:"count"`
		Revenue float64 `db:"revenue"`
	}{}

	if err := r.db.DB.GetContext(ctx, &row, query, since); err != nil {
		r.logger.Error("Failed to get order totals", "error", err)
		return 0, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return row.Count, row.Revenue, nil
}

// RevenueByDay returns per-day revenue buckets for the given interval
func (r *OrderRepository) RevenueByDay(ctx context.Context, start, end time.Time) ([]models.RevenuePoint, error) {
	query := `
		SELECT DATE(created_at) AS date, COALESCE(SUM(total), 0) AS revenue
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY DATE(created_at)
		ORDER BY date ASC
	`

	var points []models.RevenuePoint
	if err := r.db.DB.SelectContext(ctx, &points, query, start, end); err != nil {
		r.logger.Error("Failed to get revenue by day", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return points, nil
}
