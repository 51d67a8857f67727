package model

import "brewbean/internal/loyalty"

// LoyaltyStatus is the response payload for a user's loyalty standing.
type LoyaltyStatus struct {
	Points           int           `json:"points"`
	Tier             loyalty.Tier  `json:"tier"`
	NextTier         *loyalty.Tier `json:"nextTier,omitempty"`
	PointsToNextTier int           `json:"pointsToNextTier"`
}

// AddCartItemRequest is the request payload for adding a line to the cart.
type AddCartItemRequest struct {
	MenuItemID          string            `json:"menuItemId"`
	Quantity            int               `json:"quantity"`
	Customizations      map[string]string `json:"customizations,omitempty"`
	SpecialInstructions string            `json:"specialInstructions,omitempty"`
}

// UpdateQuantityRequest is the request payload for changing a cart line's
// quantity. A quantity of zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
