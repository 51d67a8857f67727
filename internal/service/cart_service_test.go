package service

import (
	"context"
	"testing"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCartService(t *testing.T) (CartService, *MockCartStore, *MockMenuRepository) {
	t.Helper()
	store := new(MockCartStore)
	menuRepo := new(MockMenuRepository)
	return NewCartService(store, menuRepo, zerolog.Nop()), store, menuRepo
}

func latte() *model.MenuItem {
	return &model.MenuItem{
		ID:          "1",
		Name:        "Signature Latte",
		Description: "Espresso with steamed milk and vanilla",
		Price:       5.50,
		Category:    model.CategoryCoffee,
	}
}

func TestCartService_Get_EmptyCart(t *testing.T) {
	service, store, _ := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	store.On("Get", ctx, userID).Return(nil, nil)

	cart, err := service.Get(ctx, userID)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCartService_AddItem(t *testing.T) {
	service, store, menuRepo := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	menuRepo.On("GetByID", ctx, "1").Return(latte(), nil)
	store.On("Get", ctx, userID).Return(nil, nil)
	store.On("Save", ctx, userID, mock.AnythingOfType("[]model.CartItem")).Return(nil)

	cart, err := service.AddItem(ctx, userID, &model.AddCartItemRequest{
		MenuItemID:     "1",
		Quantity:       2,
		Customizations: map[string]string{"Milk": "Oat"},
	})

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Oat", cart.Items[0].Customizations["Milk"])
	assert.InDelta(t, 11.00, cart.Total, 1e-9)
}

func TestCartService_AddItem_MergesIdenticalLines(t *testing.T) {
	service, store, menuRepo := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.CartItem{
		{MenuItem: *latte(), Quantity: 1, Customizations: map[string]string{"Milk": "Oat"}},
	}

	menuRepo.On("GetByID", ctx, "1").Return(latte(), nil)
	store.On("Get", ctx, userID).Return(existing, nil)

	var saved []model.CartItem
	store.On("Save", ctx, userID, mock.AnythingOfType("[]model.CartItem")).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).([]model.CartItem)
		}).
		Return(nil)

	cart, err := service.AddItem(ctx, userID, &model.AddCartItemRequest{
		MenuItemID:     "1",
		Quantity:       2,
		Customizations: map[string]string{"Milk": "Oat"},
	})

	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 3, saved[0].Quantity)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_AddItem_DifferentCustomizationsKeptSeparate(t *testing.T) {
	service, store, menuRepo := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.CartItem{
		{MenuItem: *latte(), Quantity: 1, Customizations: map[string]string{"Milk": "Oat"}},
	}

	menuRepo.On("GetByID", ctx, "1").Return(latte(), nil)
	store.On("Get", ctx, userID).Return(existing, nil)
	store.On("Save", ctx, userID, mock.AnythingOfType("[]model.CartItem")).Return(nil)

	cart, err := service.AddItem(ctx, userID, &model.AddCartItemRequest{
		MenuItemID:     "1",
		Quantity:       1,
		Customizations: map[string]string{"Milk": "Soy"},
	})

	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	service, _, menuRepo := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := service.AddItem(ctx, userID, &model.AddCartItemRequest{MenuItemID: "1", Quantity: 0})
	require.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = service.AddItem(ctx, userID, &model.AddCartItemRequest{Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "menu item ID is required")

	menuRepo.On("GetByID", ctx, "ghost").Return(nil, nil)
	_, err = service.AddItem(ctx, userID, &model.AddCartItemRequest{MenuItemID: "ghost", Quantity: 1})
	require.ErrorIs(t, err, model.ErrMenuItemNotFound)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	service, store, _ := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.CartItem{{MenuItem: *latte(), Quantity: 1}}

	store.On("Get", ctx, userID).Return(existing, nil)
	store.On("Save", ctx, userID, mock.AnythingOfType("[]model.CartItem")).Return(nil)

	cart, err := service.UpdateQuantity(ctx, userID, "1", 4)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.InDelta(t, 22.00, cart.Total, 1e-9)
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	service, store, _ := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.CartItem{{MenuItem: *latte(), Quantity: 2}}

	store.On("Get", ctx, userID).Return(existing, nil)
	store.On("Save", ctx, userID, mock.AnythingOfType("[]model.CartItem")).Return(nil)

	cart, err := service.UpdateQuantity(ctx, userID, "1", 0)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCartService_UpdateQuantity_MissingLine(t *testing.T) {
	service, store, _ := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	store.On("Get", ctx, userID).Return(nil, nil)

	_, err := service.UpdateQuantity(ctx, userID, "missing", 2)

	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	service, store, _ := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.CartItem{
		{MenuItem: *latte(), Quantity: 1},
		{MenuItem: model.MenuItem{ID: "2", Name: "Cold Brew", Price: 4.50, Category: model.CategoryCoffee}, Quantity: 1},
	}

	store.On("Get", ctx, userID).Return(existing, nil)

	var saved []model.CartItem
	store.On("Save", ctx, userID, mock.AnythingOfType("[]model.CartItem")).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).([]model.CartItem)
		}).
		Return(nil)

	cart, err := service.RemoveItem(ctx, userID, "1")

	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "2", saved[0].MenuItem.ID)
	assert.InDelta(t, 4.50, cart.Total, 1e-9)
}

func TestCartService_Clear(t *testing.T) {
	service, store, _ := newTestCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	store.On("Clear", ctx, userID).Return(nil)

	require.NoError(t, service.Clear(ctx, userID))
	store.AssertExpectations(t)
}
