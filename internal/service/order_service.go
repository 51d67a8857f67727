package service

import (
	"context"
	"fmt"
	"time"

	"brewbean/internal/loyalty"
	"brewbean/internal/model"
	"brewbean/internal/payment"
	"brewbean/internal/pickup"
	"brewbean/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const pickupQRSize = 256

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	menuRepo  repository.MenuRepository
	cart      CartService
	engine    *loyalty.Engine
	provider  payment.Provider
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	menuRepo repository.MenuRepository,
	cartService CartService,
	engine *loyalty.Engine,
	provider payment.Provider,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		menuRepo:  menuRepo,
		cart:      cartService,
		engine:    engine,
		provider:  provider,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout places an order from the user's current cart: charge first,
// then persist the order and credit points in one transaction, then
// clear the cart. A charge that cannot be followed by a persisted order
// is compensated with a best-effort refund.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	items, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := ComputeTotal(items)
	points := s.engine.PointsForTotal(total)

	// Payment before persistence: a declined charge means no order row
	// ever exists.
	intentID, err := s.provider.CreateIntent(ctx, total)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("payment setup failed")
		return nil, model.NewPaymentError(fmt.Sprintf("payment setup failed: %v", err))
	}

	if err := s.provider.Process(ctx, intentID, req.PaymentMethodID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Str("intent_id", intentID).
			Msg("payment declined")
		return nil, model.NewPaymentError(err.Error())
	}

	order := &model.Order{
		ID:           uuid.New(),
		UserID:       userID,
		Items:        items,
		Status:       model.StatusPending,
		Total:        total,
		PointsEarned: points,
		PickupTime:   req.PickupTime,
		Location:     req.Location,
		CreatedAt:    time.Now(),
	}
	order.PickupCode = pickup.NewCode(order.ID)

	if err := s.persistOrder(ctx, order); err != nil {
		// Charged but not persisted: compensate with a refund so the
		// customer is not left paying for an order that does not exist.
		if refundErr := s.provider.Refund(ctx, intentID); refundErr != nil {
			s.logger.Error().
				Err(refundErr).
				Str("intent_id", intentID).
				Str("user_id", userID.String()).
				Msg("refund after failed order persistence also failed, manual reconciliation required")
		} else {
			s.logger.Warn().
				Str("intent_id", intentID).
				Str("user_id", userID.String()).
				Msg("order persistence failed after charge, payment refunded")
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Cart clearing is not part of the order transaction; a leftover
	// cart is harmless next to a placed order.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Float64("total", total).
		Int("points_earned", points).
		Msg("checkout completed")

	return order, nil
}

// loadCart fetches and validates the cart lines for checkout.
func (s *orderService) loadCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	c, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		if item.Quantity <= 0 {
			return nil, model.ErrInvalidQuantity
		}
		ids[i] = item.MenuItem.ID
	}

	if err := s.menuRepo.ValidateItemsExist(ctx, ids); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("cart references missing menu items")
		return nil, err
	}

	return c.Items, nil
}

// persistOrder writes the order row and credits the earned points in a
// single transaction.
func (s *orderService) persistOrder(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
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

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return err
	}

	if err = s.userRepo.CreditPoints(ctx, tx, order.UserID, order.PointsEarned); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// GetByID retrieves an order.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// List retrieves orders matching the query.
func (s *orderService) List(ctx context.Context, q *repository.Query) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus applies a staff status transition. Transitions only move
// forward; cancellation is allowed from any non-terminal state.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, model.ErrInvalidTransition
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !model.CanTransition(order.Status, status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", order.Status).
			Str("to", status).
			Msg("status transition rejected")
		return nil, model.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = status

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", status).
		Msg("order status updated")

	return order, nil
}

// ValidatePickupCode resolves a pickup code to its order. Scanning a
// ready order completes it; scanning a completed order again returns it
// unchanged.
func (s *orderService) ValidatePickupCode(ctx context.Context, code string) (*model.Order, error) {
	if code == "" {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByPickupCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pickup code: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.Status == model.StatusReady {
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, model.StatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete order: %w", err)
		}
		order.Status = model.StatusCompleted

		s.logger.Info().
			Str("order_id", order.ID.String()).
			Str("pickup_code", code).
			Msg("order picked up")
	}

	return order, nil
}

// PickupQR renders the order's pickup code as a PNG.
func (s *orderService) PickupQR(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if size <= 0 {
		size = pickupQRSize
	}

	png, err := pickup.QRImage(order.PickupCode, size)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to render pickup QR")
		return nil, err
	}

	return png, nil
}

// Stats aggregates today's dashboard numbers.
func (s *orderService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.orderRepo.Stats(ctx, midnight)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate stats")
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	return stats, nil
}

// validateCheckoutRequest validates the checkout request.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}
	if req.Location == "" {
		return fmt.Errorf("pickup location is required")
	}
	if req.PickupTime.IsZero() {
		return fmt.Errorf("pickup time is required")
	}
	if req.PaymentMethodID == "" {
		return fmt.Errorf("payment method is required")
	}
	return nil
}
