package service

import (
	"context"
	"fmt"

	"brewbean/internal/cart"
	"brewbean/internal/model"
	"brewbean/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService over the cart store. Every
// mutation reads the full cart, edits it in memory, and writes the
// whole thing back.
type cartService struct {
	store    cart.Store
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store cart.Store, menuRepo repository.MenuRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:    store,
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the user's cart with its computed total.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &model.Cart{Items: items, Total: ComputeTotal(items)}, nil
}

// AddItem adds a line to the cart. The menu item is snapshotted into the
// line at its current catalogue price; an existing line with the same
// item and customizations has its quantity bumped instead.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req == nil || req.MenuItemID == "" {
		return nil, fmt.Errorf("menu item ID is required")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	menuItem, err := s.menuRepo.GetByID(ctx, req.MenuItemID)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", req.MenuItemID).Msg("failed to look up menu item")
		return nil, fmt.Errorf("failed to look up menu item: %w", err)
	}
	if menuItem == nil {
		return nil, model.ErrMenuItemNotFound
	}

	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	line := model.CartItem{
		MenuItem:            *menuItem,
		Quantity:            req.Quantity,
		Customizations:      req.Customizations,
		SpecialInstructions: req.SpecialInstructions,
	}

	merged := false
	for i := range items {
		if items[i].SameLine(line) {
			items[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, line)
	}

	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("menu_item_id", req.MenuItemID).
		Int("quantity", req.Quantity).
		Bool("merged", merged).
		Msg("cart line added")

	return &model.Cart{Items: items, Total: ComputeTotal(items)}, nil
}

// UpdateQuantity changes the quantity of the first line for the given
// menu item; a quantity of zero removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, menuItemID string, quantity int) (*model.Cart, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	idx := -1
	for i := range items {
		if items[i].MenuItem.ID == menuItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.ErrNotFound
	}

	if quantity == 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = quantity
	}

	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return &model.Cart{Items: items, Total: ComputeTotal(items)}, nil
}

// RemoveItem removes the line for the given menu item.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, menuItemID string) (*model.Cart, error) {
	return s.UpdateQuantity(ctx, userID, menuItemID, 0)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
