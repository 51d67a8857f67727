package service

import (
	"context"
	"fmt"

	"brewbean/internal/model"
	"brewbean/internal/repository"

	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	repo   repository.MenuRepository
	logger zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(repo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		repo:   repo,
		logger: logger.With().Str("service", "menu").Logger(),
	}
}

// GetAll retrieves the catalogue, optionally filtered by category.
func (s *menuService) GetAll(ctx context.Context, category string) ([]model.MenuItem, error) {
	if category != "" && !model.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category: %s", category)
	}

	items, err := s.repo.GetAll(ctx, category)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to get menu items")
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item.
func (s *menuService) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return item, nil
}
