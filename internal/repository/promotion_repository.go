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

// PromotionRepository handles database operations for promotions
type PromotionRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewPromotionRepository creates a new PromotionRepository
func NewPromotionRepository(db *database.Database, logger logger.Logger) *PromotionRepository {
	return &PromotionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new promotion
func (r *PromotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	query := `
		INSERT INTO promotions (id, name, description, discount, discount_type, valid_from, valid_until, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		promo.ID,
		promo.Name,
		promo.Description,
		promo.Discount,
		promo.DiscountType,
		promo.ValidFrom,
		promo.ValidUntil,
		promo.Active,
		promo.CreatedAt,
		promo.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create promotion", "error", err, "promotionID", promo.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves a promotion by its ID
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*models.Promotion, error) {
	query := `
		SELECT id, name, description, discount, discount_type, valid_from, valid_until, active, created_at, updated_at
		FROM promotions
		WHERE id = $1
	`

	var promo models.Promotion
	err := r.db.DB.GetContext(ctx, &promo, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get promotion", "error", err, "promotionID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &promo, nil
}

// GetAll retrieves promotions, optionally filtered by active flag
func (r *PromotionRepository) GetAll(ctx context.Context, active *bool) ([]*models.Promotion, error) {
	query := `
		SELECT id, name, description, discount, discount_type, valid_from, valid_until, active, created_at, updated_at
		FROM promotions
		WHERE ($1::boolean IS NULL OR active = $1)
		ORDER BY valid_from DESC
	`

	var promos []*models.Promotion
	err := r.db.DB.SelectContext(ctx, &promos, query, active)

	if err != nil {
		r.logger.Error("Failed to get promotions", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return promos, nil
}

// Update updates an existing promotion
func (r *PromotionRepository) Update(ctx context.Context, promo *models.Promotion) error {
	query := `
		UPDATE promotions
		SET name = $1, description = $2, discount = $3, discount_type = $4,
		    valid_from = $5, valid_until = $6, active = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		promo.Name,
		promo.Description,
		promo.Discount,
		promo.DiscountType,
		promo.ValidFrom,
		promo.ValidUntil,
		promo.Active,
		models.GetCurrentTime(),
		promo.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update promotion", "error", err, "promotionID", promo.ID)
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

// SetActive toggles a promotion on or off
func (r *PromotionRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `
		UPDATE promotions
		SET active = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.DB.ExecContext(ctx, query, active, models.GetCurrentTime(), id)

	if err != nil {
		r.logger.Error("Failed to toggle promotion", "error", err, "promotionID", id)
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

// Delete removes a promotion by its ID
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM promotions WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)

	if err != nil {
		r.logger.Error("Failed to delete promotion", "error", err, "promotionID", id)
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
