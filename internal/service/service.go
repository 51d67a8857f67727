package service

import (
	"context"

	"brewbean/internal/loyalty"
	"brewbean/internal/model"
	"brewbean/internal/repository"

	"github.com/google/uuid"
)

// MenuService defines operations for browsing the catalogue.
type MenuService interface {
	// GetAll retrieves the catalogue, optionally filtered by category.
	GetAll(ctx context.Context, category string) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)
}

// CartService defines operations on a user's cart.
type CartService interface {
	// Get returns the user's cart with its computed total.
	Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds a line to the cart, merging with an existing line for
	// the same item and customizations.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.Cart, error)

	// UpdateQuantity changes the quantity of the line for the given menu
	// item; a quantity of zero removes the line.
	UpdateQuantity(ctx context.Context, userID uuid.UUID, menuItemID string, quantity int) (*model.Cart, error)

	// RemoveItem removes the line for the given menu item.
	RemoveItem(ctx context.Context, userID uuid.UUID, menuItemID string) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderService defines checkout, order tracking and fulfillment.
type OrderService interface {
	// Checkout charges the user's cart and creates the order.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error)

	// GetByID retrieves an order. Returns (nil, nil) on a miss.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders matching the query.
	List(ctx context.Context, q *repository.Query) ([]model.Order, error)

	// UpdateStatus applies a staff status transition and returns the
	// updated order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)

	// ValidatePickupCode resolves a pickup code to its order, completing
	// the order as a side effect when it is ready.
	ValidatePickupCode(ctx context.Context, code string) (*model.Order, error)

	// PickupQR renders the order's pickup code as a PNG.
	PickupQR(ctx context.Context, id uuid.UUID, size int) ([]byte, error)

	// Stats aggregates today's dashboard numbers.
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// LoyaltyService defines tier lookups and reward redemption.
type LoyaltyService interface {
	// Tiers returns the tier table.
	Tiers() []loyalty.Tier

	// Status returns the user's tier, next tier and points to go.
	Status(ctx context.Context, userID uuid.UUID) (*model.LoyaltyStatus, error)

	// Rewards retrieves rewards matching the query.
	Rewards(ctx context.Context, q *repository.Query) ([]model.Reward, error)

	// Redeem exchanges points for a reward, debiting the balance and
	// recording the redemption atomically.
	Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*model.Redemption, error)
}

// ComputeTotal sums price x quantity over all cart lines. It is additive
// over line concatenation and includes no tax.
func ComputeTotal(items []model.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
