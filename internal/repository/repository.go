package repository

import (
	"context"
	"time"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MenuRepository defines the interface for catalogue data access.
type MenuRepository interface {
	// GetAll retrieves the catalogue, optionally filtered by category.
	GetAll(ctx context.Context, category string) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID. Returns (nil, nil)
	// when the item does not exist.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// ValidateItemsExist checks that every provided menu item ID exists.
	ValidateItemsExist(ctx context.Context, ids []string) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order by its ID. Returns (nil, nil) on a miss.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByPickupCode retrieves an order by its pickup code. Returns
	// (nil, nil) on a miss.
	GetByPickupCode(ctx context.Context, code string) (*model.Order, error)

	// List retrieves orders matching the query (filters, order, limit).
	List(ctx context.Context, q *Query) ([]model.Order, error)

	// UpdateStatus sets the status of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Stats aggregates order counts and revenue since the given time,
	// plus the number of active orders per status.
	Stats(ctx context.Context, since time.Time) (*model.DashboardStats, error)
}

// UserRepository defines the interface for loyalty member data access.
type UserRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByID retrieves a user by ID. Returns (nil, nil) on a miss.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// CreditPoints adds points to a user's balance within the transaction.
	CreditPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error

	// DebitPoints subtracts points from a user's balance within the
	// transaction. Fails with model.ErrInsufficientPoints if the balance
	// would go negative; the balance is left untouched in that case.
	DebitPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error
}

// RewardRepository defines the interface for reward data access.
type RewardRepository interface {
	// GetByID retrieves a reward by ID. Returns (nil, nil) on a miss.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)

	// List retrieves rewards matching the query (filters, order, limit).
	List(ctx context.Context, q *Query) ([]model.Reward, error)

	// RecordRedemption inserts a redemption record within the transaction.
	RecordRedemption(ctx context.Context, tx pgx.Tx, redemption *model.Redemption) error
}
