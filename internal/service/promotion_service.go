package service

import (
	"context"
	"time"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/pkg/logger"
)

// PromotionService handles promotion management
type PromotionService struct {
	promoRepo *repository.PromotionRepository
	logger    logger.Logger
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promoRepo *repository.PromotionRepository, logger logger.Logger) *PromotionService {
	return &PromotionService{
		promoRepo: promoRepo,
		logger:    logger,
	}
}

// CreatePromotion adds a new promotion
func (s *PromotionService) CreatePromotion(ctx context.Context, name, description string, discount float64, discountType models.DiscountType, validFrom, validUntil time.Time, active bool) (*models.Promotion, error) {
	promo := models.NewPromotion(name, description, discount, discountType, validFrom, validUntil, active)

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info("Promotion created", "promotionID", promo.ID, "name", promo.Name)
	return promo, nil
}

// GetPromotions lists promotions with an optional active filter
func (s *PromotionService) GetPromotions(ctx context.Context, active *bool) ([]*models.Promotion, error) {
	return s.promoRepo.GetAll(ctx, active)
}

// UpdatePromotion updates an existing promotion's fields
func (s *PromotionService) UpdatePromotion(ctx context.Context, id, name, description string, discount float64, discountType models.DiscountType, validFrom, validUntil time.Time, active bool) (*models.Promotion, error) {
	promo, err := s.promoRepo.GetByID(ctx, id)

	if err != nil {
		return nil, err
	}

	promo.Name = name
	promo.Description = description
	promo.Discount = discount
	promo.DiscountType = discountType
	promo.ValidFrom = validFrom
	promo.ValidUntil = validUntil
	promo.Active = active

	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info("Promotion updated", "promotionID", promo.ID)
	return promo, nil
}

// TogglePromotion switches a promotion's active flag
func (s *PromotionService) TogglePromotion(ctx context.Context, id string, active bool) (*models.Promotion, error) {
	if err := s.promoRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	s.logger.Info("Promotion toggled", "promotionID", id, "active", active)
	return s.promoRepo.GetByID(ctx, id)
}

// DeletePromotion removes a promotion
func (s *PromotionService) DeletePromotion(ctx context.Context, id string) error {
	if err := s.promoRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Promotion deleted", "promotionID", id)
	return nil
}
