package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInsufficientPts   = "INSUFFICIENT_POINTS"
	ErrCodePaymentFailed     = "PAYMENT_FAILED"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeMenuItemNotFound  = "MENU_ITEM_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying a stable code that
// handlers map onto HTTP statuses.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError(ErrCodeNotFound, "Entity not found")
	ErrUserNotFound       = NewDomainError(ErrCodeNotFound, "User not found")
	ErrRewardNotFound     = NewDomainError(ErrCodeNotFound, "Reward not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrInsufficientPoints = NewDomainError(ErrCodeInsufficientPts, "Insufficient points for this reward")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrMenuItemNotFound   = NewDomainError(ErrCodeMenuItemNotFound, "One or more menu items not found")
	ErrInvalidTransition  = NewDomainError(ErrCodeInvalidTransition, "Order status transition not allowed")
)

// NewPaymentError wraps a payment provider failure as a domain error so
// the provider's message reaches the caller.
func NewPaymentError(providerMsg string) *DomainError {
	return &DomainError{Code: ErrCodePaymentFailed, Message: providerMsg}
}
