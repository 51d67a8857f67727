package repository

import (
	"context"
	"fmt"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *userRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, name, COALESCE(phone, ''), points, COALESCE(favorite_items, '{}'), created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.Points,
		&user.FavoriteItems,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", id.String()).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, phone, points, favorite_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Phone,
		user.Points,
		user.FavoriteItems,
		user.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// CreditPoints adds points to a user's balance within the transaction.
func (r *userRepository) CreditPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	query := `UPDATE users SET points = points + $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, points, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", id.String()).
			Int("points", points).
			Msg("failed to credit points")
		return fmt.Errorf("failed to credit points: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	r.logger.Debug().
		Str("user_id", id.String()).
		Int("points", points).
		Msg("points credited")

	return nil
}

// DebitPoints subtracts points from a user's balance within the
// transaction. The WHERE guard keeps the balance from ever going
// negative even under concurrent redemptions.
func (r *userRepository) DebitPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	query := `UPDATE users SET points = points - $1 WHERE id = $2 AND points >= $1`

	tag, err := tx.Exec(ctx, query, points, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", id.String()).
			Int("points", points).
			Msg("failed to debit points")
		return fmt.Errorf("failed to debit points: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientPoints
	}

	r.logger.Debug().
		Str("user_id", id.String()).
		Int("points", points).
		Msg("points debited")

	return nil
}
