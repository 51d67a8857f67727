package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a loyalty member. The point balance is credited on
// order creation and debited on reward redemption; it never goes
// negative (redemption checks the balance first).
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	Name          string    `json:"name" db:"name"`
	Phone         string    `json:"phone,omitempty" db:"phone"`
	Points        int       `json:"points" db:"points"`
	FavoriteItems []string  `json:"favoriteItems,omitempty" db:"favorite_items"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
