// Package payment wraps the payment provider behind a two-step
// authorize/capture interface: create an intent for an amount, then
// process it. Refund exists only as the compensating action for a
// checkout that charged but failed to persist.
package payment

import "context"

// Provider is the payment shim used by checkout.
type Provider interface {
	// CreateIntent obtains an authorization handle for the amount
	// (in dollars) and returns its ID.
	CreateIntent(ctx context.Context, amount float64) (string, error)

	// Process captures a previously created intent using the given
	// payment method.
	Process(ctx context.Context, intentID, paymentMethodID string) error

	// Refund reverses a processed intent.
	Refund(ctx context.Context, intentID string) error
}
