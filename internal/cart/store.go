// Package cart persists each user's cart as a single serialized list of
// cart lines under one fixed key, fully overwritten on every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "brewbean:cart:"

// Store defines the cart persistence interface.
type Store interface {
	// Get returns the user's cart lines. A missing cart is an empty one.
	Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// Save overwrites the user's cart with the given lines.
	Save(ctx context.Context, userID uuid.UUID, items []model.CartItem) error

	// Clear removes the user's cart entirely.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// redisStore implements Store on redis.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a redis-backed cart store.
func NewRedisStore(client *redis.Client, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		logger: logger.With().Str("store", "cart").Logger(),
	}
}

func cartKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

// Get returns the user's cart lines.
func (s *redisStore) Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to decode cart")
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return items, nil
}

// Save overwrites the user's cart with the given lines. An empty list
// removes the key, matching Get's empty-cart semantics.
func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, items []model.CartItem) error {
	if len(items) == 0 {
		return s.Clear(ctx, userID)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(userID), data, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to write cart")
		return fmt.Errorf("failed to write cart: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Int("line_count", len(items)).
		Msg("cart saved")

	return nil
}

// Clear removes the user's cart entirely.
func (s *redisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
