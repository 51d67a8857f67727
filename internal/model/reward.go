package model

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a redeemable catalogue entry, purchasable with points while
// the user's balance covers the cost.
type Reward struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	PointsCost  int       `json:"pointsCost" db:"points_cost"`
	ValidUntil  time.Time `json:"validUntil" db:"valid_until"`
}

// Redemption records one reward redeemed by one user.
type Redemption struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	RewardID   uuid.UUID `json:"rewardId" db:"reward_id"`
	RedeemedAt time.Time `json:"redeemedAt" db:"redeemed_at"`
}
