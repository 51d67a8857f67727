package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/refund"
)

// stripeProvider implements Provider against the Stripe API.
type stripeProvider struct {
	currency string
	logger   zerolog.Logger
}

// NewStripeProvider creates a Stripe-backed payment provider. The secret
// key is installed globally, per the stripe-go client model.
func NewStripeProvider(secretKey, currency string, logger zerolog.Logger) Provider {
	stripe.Key = secretKey
	return &stripeProvider{
		currency: currency,
		logger:   logger.With().Str("payment", "stripe").Logger(),
	}
}

// CreateIntent creates a PaymentIntent for the amount. Stripe amounts
// are integral minor units, so dollars are converted to cents.
func (p *stripeProvider) CreateIntent(ctx context.Context, amount float64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		p.logger.Error().Err(err).Float64("amount", amount).Msg("failed to create payment intent")
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	p.logger.Info().
		Str("intent_id", intent.ID).
		Float64("amount", amount).
		Msg("payment intent created")

	return intent.ID, nil
}

// Process confirms the intent with the provided payment method.
func (p *stripeProvider) Process(ctx context.Context, intentID, paymentMethodID string) error {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx

	intent, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		p.logger.Warn().Err(err).Str("intent_id", intentID).Msg("payment confirmation failed")
		return fmt.Errorf("payment confirmation failed: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		p.logger.Warn().
			Str("intent_id", intentID).
			Str("status", string(intent.Status)).
			Msg("payment not completed")
		return fmt.Errorf("payment not completed, status: %s", intent.Status)
	}

	p.logger.Info().Str("intent_id", intentID).Msg("payment processed")

	return nil
}

// Refund reverses a processed intent.
func (p *stripeProvider) Refund(ctx context.Context, intentID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		p.logger.Error().Err(err).Str("intent_id", intentID).Msg("refund failed")
		return fmt.Errorf("refund failed: %w", err)
	}

	p.logger.Info().Str("intent_id", intentID).Msg("payment refunded")

	return nil
}
