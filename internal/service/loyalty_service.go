package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"brewbean/internal/loyalty"
	"brewbean/internal/model"
	"brewbean/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// loyaltyService implements LoyaltyService.
type loyaltyService struct {
	engine     *loyalty.Engine
	userRepo   repository.UserRepository
	rewardRepo repository.RewardRepository
	logger     zerolog.Logger
}

// NewLoyaltyService creates a new loyalty service.
func NewLoyaltyService(
	engine *loyalty.Engine,
	userRepo repository.UserRepository,
	rewardRepo repository.RewardRepository,
	logger zerolog.Logger,
) LoyaltyService {
	return &loyaltyService{
		engine:     engine,
		userRepo:   userRepo,
		rewardRepo: rewardRepo,
		logger:     logger.With().Str("service", "loyalty").Logger(),
	}
}

// Tiers returns the tier table.
func (s *loyaltyService) Tiers() []loyalty.Tier {
	return s.engine.Tiers()
}

// Status returns the user's tier, next tier and points to go.
func (s *loyaltyService) Status(ctx context.Context, userID uuid.UUID) (*model.LoyaltyStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	status := &model.LoyaltyStatus{
		Points:           user.Points,
		Tier:             s.engine.TierFor(user.Points),
		PointsToNextTier: s.engine.PointsToNextTier(user.Points),
	}
	if next, ok := s.engine.NextTierFor(user.Points); ok {
		status.NextTier = &next
	}

	return status, nil
}

// Rewards retrieves rewards matching the query.
func (s *loyaltyService) Rewards(ctx context.Context, q *repository.Query) ([]model.Reward, error) {
	rewards, err := s.rewardRepo.List(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list rewards")
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return rewards, nil
}

// Redeem exchanges points for a reward. The user and reward lookups run
// concurrently and are awaited jointly; the debit and the redemption
// record are written in one transaction so the balance never moves
// without a matching record.
func (s *loyaltyService) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*model.Redemption, error) {
	var (
		wg        sync.WaitGroup
		user      *model.User
		reward    *model.Reward
		userErr   error
		rewardErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		user, userErr = s.userRepo.GetByID(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		reward, rewardErr = s.rewardRepo.GetByID(ctx, rewardID)
	}()
	wg.Wait()

	if userErr != nil {
		return nil, fmt.Errorf("failed to get user: %w", userErr)
	}
	if rewardErr != nil {
		return nil, fmt.Errorf("failed to get reward: %w", rewardErr)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	if reward == nil {
		return nil, model.ErrRewardNotFound
	}

	if user.Points < reward.PointsCost {
		s.logger.Debug().
			Str("user_id", userID.String()).
			Str("reward_id", rewardID.String()).
			Int("points", user.Points).
			Int("cost", reward.PointsCost).
			Msg("redemption rejected, insufficient points")
		return nil, model.ErrInsufficientPoints
	}

	redemption := &model.Redemption{
		ID:         uuid.New(),
		UserID:     userID,
		RewardID:   rewardID,
		RedeemedAt: time.Now(),
	}

	if err := s.persistRedemption(ctx, redemption, reward.PointsCost); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("reward_id", rewardID.String()).
		Int("cost", reward.PointsCost).
		Msg("reward redeemed")

	return redemption, nil
}

// persistRedemption debits the balance and records the redemption in a
// single transaction.
func (s *loyaltyService) persistRedemption(ctx context.Context, redemption *model.Redemption, cost int) (err error) {
	tx, err := s.userRepo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// The repository guard re-checks the balance inside the transaction,
	// so a concurrent redemption cannot drive it negative.
	if err = s.userRepo.DebitPoints(ctx, tx, redemption.UserID, cost); err != nil {
		return err
	}

	if err = s.rewardRepo.RecordRedemption(ctx, tx, redemption); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit redemption: %w", err)
	}

	return nil
}
