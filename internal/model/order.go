package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Orders move forward only: pending -> preparing -> ready
// -> completed. Any non-terminal order can be cancelled.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// statusRank orders the forward progression of the happy path.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusCompleted: 3,
}

// ValidStatus reports whether the given status is a known order status.
func ValidStatus(status string) bool {
	if status == StatusCancelled {
		return true
	}
	_, ok := statusRank[status]
	return ok
}

// TerminalStatus reports whether an order in the given status can no
// longer transition.
func TerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CanTransition reports whether an order may move from one status to
// another. The happy path advances one step at a time; cancellation is
// allowed from any non-terminal status. No transition moves backward.
func CanTransition(from, to string) bool {
	if TerminalStatus(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// Order represents a placed customer order. Orders are never deleted;
// they only transition status until terminal.
type Order struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"userId" db:"user_id"`
	Items        []CartItem `json:"items" db:"items"`
	Status       string     `json:"status" db:"status"`
	Total        float64    `json:"total" db:"total"`
	PointsEarned int        `json:"pointsEarned" db:"points_earned"`
	PickupTime   time.Time  `json:"pickupTime" db:"pickup_time"`
	Location     string     `json:"location" db:"location"`
	PickupCode   string     `json:"pickupCode" db:"pickup_code"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// CheckoutRequest is the request payload for placing an order from the
// caller's current cart.
type CheckoutRequest struct {
	PickupTime      time.Time `json:"pickupTime"`
	Location        string    `json:"location"`
	PaymentMethodID string    `json:"paymentMethodId"`
}

// ValidateCodeRequest is the request payload for pickup code validation.
type ValidateCodeRequest struct {
	Code string `json:"code"`
}

// StatusUpdateRequest is the request payload for a staff status change.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
