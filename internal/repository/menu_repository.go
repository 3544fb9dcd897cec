package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tavola/backoffice/internal/database"
	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

// MenuRepository handles database operations for menu items
type MenuRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db *database.Database, logger logger.Logger) *MenuRepository {
	return &MenuRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new menu item
func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, category, available, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.Available,
		item.ImageURL,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create menu item", "error", err, "itemID", item.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves a menu item by its ID
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	query := `
		SELECT id, name, description, price, category, available, image_url, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`

	var item models.MenuItem
	err := r.db.DB.GetContext(ctx, &item, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get menu item", "error", err, "itemID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &item, nil
}

// GetAll retrieves menu items, optionally filtered by category and availability
func (r *MenuRepository) GetAll(ctx context.Context, category string, available *bool) ([]*models.MenuItem, error) {
	query := `
		SELECT id, name, description, price, category, available, image_url, created_at, updated_at
		FROM menu_items
		WHERE ($1 = '' OR category = $1)
		  AND ($2::boolean IS NULL OR available = $2)
		ORDER BY category ASC, name ASC
	`

	var items []*models.MenuItem
	err := r.db.DB.SelectContext(ctx, &items, query, category, available)

	if err != nil {
		r.logger.Error("Failed to get menu items", "error", err, "category", category)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return items, nil
}

// GetCategories retrieves the distinct menu categories
func (r *MenuRepository) GetCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM menu_items ORDER BY category ASC`

	var categories []string
	err := r.db.DB.SelectContext(ctx, &categories, query)

	if err != nil {
		r.logger.Error("Failed to get menu categories", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return categories, nil
}

// Update updates an existing menu item
func (r *MenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, available = $5, image_url = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.Available,
		item.ImageURL,
		models.GetCurrentTime(),
		item.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update menu item", "error", err, "itemID", item.ID)
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

// Delete removes a menu item by its ID
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM menu_items WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)

	if err != nil {
		r.logger.Error("Failed to delete menu item", "error", err, "itemID", id)
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
