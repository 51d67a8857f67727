package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Simulator is a stand-in provider with fixed success behavior, used
// when no Stripe key is configured. Intent IDs look like real ones
// (pi_demo_<unix-ms>) and processed intents are tracked so Refund can
// reject unknown handles.
type Simulator struct {
	logger zerolog.Logger

	mu        sync.Mutex
	created   map[string]bool
	processed map[string]bool
}

// NewSimulator creates a simulated payment provider.
func NewSimulator(logger zerolog.Logger) *Simulator {
	return &Simulator{
		logger:    logger.With().Str("payment", "simulator").Logger(),
		created:   make(map[string]bool),
		processed: make(map[string]bool),
	}
}

// CreateIntent returns a fresh demo intent ID.
func (s *Simulator) CreateIntent(ctx context.Context, amount float64) (string, error) {
	id := fmt.Sprintf("pi_demo_%d", time.Now().UnixMilli())

	s.mu.Lock()
	for s.created[id] {
		id += "x"
	}
	s.created[id] = true
	s.mu.Unlock()

	s.logger.Info().Str("intent_id", id).Float64("amount", amount).Msg("simulated payment intent created")

	return id, nil
}

// Process marks a created intent as captured.
func (s *Simulator) Process(ctx context.Context, intentID, paymentMethodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created[intentID] {
		return fmt.Errorf("unknown payment intent: %s", intentID)
	}
	s.processed[intentID] = true

	s.logger.Info().Str("intent_id", intentID).Msg("simulated payment processed")

	return nil
}

// Refund reverses a processed intent.
func (s *Simulator) Refund(ctx context.Context, intentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.processed[intentID] {
		return fmt.Errorf("cannot refund unprocessed intent: %s", intentID)
	}
	delete(s.processed, intentID)

	s.logger.Info().Str("intent_id", intentID).Msg("simulated payment refunded")

	return nil
}
