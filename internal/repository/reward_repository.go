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

// RewardQueryColumns is the allow-list for reward collection queries
// parsed from request parameters.
var RewardQueryColumns = map[string]bool{
	"points_cost": true,
	"valid_until": true,
	"name":        true,
}

const rewardSelect = `
	SELECT id, name, description, points_cost, valid_until
	FROM rewards`

// rewardRepository implements the RewardRepository interface using PostgreSQL.
type rewardRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRewardRepository creates a new PostgreSQL-backed reward repository.
func NewRewardRepository(pool *pgxpool.Pool, logger zerolog.Logger) RewardRepository {
	return &rewardRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "reward").Logger(),
	}
}

// GetByID retrieves a reward by ID.
func (r *rewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	var reward model.Reward
	err := r.pool.QueryRow(ctx, rewardSelect+` WHERE id = $1`, id).Scan(
		&reward.ID,
		&reward.Name,
		&reward.Description,
		&reward.PointsCost,
		&reward.ValidUntil,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("reward_id", id.String()).Msg("reward not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("reward_id", id.String()).Msg("failed to query reward")
		return nil, fmt.Errorf("failed to query reward: %w", err)
	}

	return &reward, nil
}

// List retrieves rewards matching the query.
func (r *rewardRepository) List(ctx context.Context, q *Query) ([]model.Reward, error) {
	sql, args := q.Build(rewardSelect)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query rewards")
		return nil, fmt.Errorf("failed to query rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		var reward model.Reward
		err := rows.Scan(
			&reward.ID,
			&reward.Name,
			&reward.Description,
			&reward.PointsCost,
			&reward.ValidUntil,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan reward row")
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, reward)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating reward rows")
		return nil, fmt.Errorf("error iterating rewards: %w", err)
	}

	return rewards, nil
}

// RecordRedemption inserts a redemption record within the transaction.
func (r *rewardRepository) RecordRedemption(ctx context.Context, tx pgx.Tx, redemption *model.Redemption) error {
	query := `
		INSERT INTO user_rewards (id, user_id, reward_id, redeemed_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query,
		redemption.ID,
		redemption.UserID,
		redemption.RewardID,
		redemption.RedeemedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", redemption.UserID.String()).
			Str("reward_id", redemption.RewardID.String()).
			Msg("failed to record redemption")
		return fmt.Errorf("failed to record redemption: %w", err)
	}

	r.logger.Debug().
		Str("user_id", redemption.UserID.String()).
		Str("reward_id", redemption.RewardID.String()).
		Msg("redemption recorded")

	return nil
}
