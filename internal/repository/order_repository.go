package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// OrderQueryColumns is the allow-list for order collection queries
// parsed from request parameters.
var OrderQueryColumns = map[string]bool{
	"user_id":    true,
	"status":     true,
	"total":      true,
	"created_at": true,
}

const orderSelect = `
	SELECT id, user_id, items, status, total, points_earned, pickup_time, location, pickup_code, created_at
	FROM orders`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction. The cart
// line snapshots are stored as a JSON document on the order row.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, items, status, total, points_earned, pickup_time, location, pickup_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		items,
		order.Status,
		order.Total,
		order.PointsEarned,
		order.PickupTime,
		order.Location,
		order.PickupCode,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, orderSelect+` WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// GetByPickupCode retrieves an order by its pickup code.
func (r *orderRepository) GetByPickupCode(ctx context.Context, code string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, orderSelect+` WHERE pickup_code = $1`, code)

	order, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("pickup_code", code).Msg("no order for pickup code")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("pickup_code", code).Msg("failed to query order by pickup code")
		return nil, fmt.Errorf("failed to query order by pickup code: %w", err)
	}

	return order, nil
}

// List retrieves orders matching the query.
func (r *orderRepository) List(ctx context.Context, q *Query) ([]model.Order, error) {
	sql, args := q.Build(orderSelect)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus sets the status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("status", status).
		Msg("order status updated")

	return nil
}

// Stats aggregates today's order count and revenue plus active orders
// per status.
func (r *orderRepository) Stats(ctx context.Context, since time.Time) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{
		ActiveByStatus: make(map[string]int),
	}

	summaryQuery := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= $1 AND status <> $2
	`
	err := r.pool.QueryRow(ctx, summaryQuery, since, model.StatusCancelled).
		Scan(&stats.TodayOrders, &stats.TodayRevenue)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order summary")
		return nil, fmt.Errorf("failed to query order summary: %w", err)
	}

	activeQuery := `
		SELECT status, COUNT(*)
		FROM orders
		WHERE status IN ($1, $2, $3)
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, activeQuery,
		model.StatusPending, model.StatusPreparing, model.StatusReady)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query active orders")
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan active order row")
			return nil, fmt.Errorf("failed to scan active orders: %w", err)
		}
		stats.ActiveByStatus[status] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating active order rows")
		return nil, fmt.Errorf("error iterating active orders: %w", err)
	}

	return stats, nil
}

// scanOrder scans an order row, decoding the items JSON column.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	var items []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&items,
		&order.Status,
		&order.Total,
		&order.PointsEarned,
		&order.PickupTime,
		&order.Location,
		&order.PickupCode,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	return &order, nil
}
