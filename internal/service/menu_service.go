package service

import (
	"context"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/pkg/logger"
)

// MenuService handles menu management
type MenuService struct {
	menuRepo *repository.MenuRepository
	logger   logger.Logger
}

// NewMenuService creates a new MenuService
func NewMenuService(menuRepo *repository.MenuRepository, logger logger.Logger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// CreateItem adds a new item to the menu
func (s *MenuService) CreateItem(ctx context.Context, name, description string, price float64, category string, available bool, imageURL string) (*models.MenuItem, error) {
	item := models.NewMenuItem(name, description, price, category, available, imageURL)

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Menu item created", "itemID", item.ID, "name", item.Name)
	return item, nil
}

// GetItems lists menu items with optional category and availability filters
func (s *MenuService) GetItems(ctx context.Context, category string, available *bool) ([]*models.MenuItem, error) {
	return s.menuRepo.GetAll(ctx, category, available)
}

// GetCategories lists the distinct menu categories
func (s *MenuService) GetCategories(ctx context.Context) ([]string, error) {
	return s.menuRepo.GetCategories(ctx)
}

// UpdateItem updates an existing menu item's fields
func (s *MenuService) UpdateItem(ctx context.Context, id, name, description string, price float64, category string, available bool, imageURL string) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)

	if err != nil {
		return nil, err
	}

	item.Name = name
	item.Description = description
	item.Price = price
	item.Category = category
	item.Available = available
	item.ImageURL = imageURL

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Menu item updated", "itemID", item.ID)
	return item, nil
}

// DeleteItem removes a menu item
func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Menu item deleted", "itemID", id)
	return nil
}
