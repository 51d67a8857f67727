package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"brewbean/internal/cart"
	"brewbean/internal/handler"
	"brewbean/internal/loyalty"
	"brewbean/internal/model"
	"brewbean/internal/payment"
	"brewbean/internal/repository"
	"brewbean/internal/router"
	"brewbean/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCartStore keeps carts in a map so API tests run without redis.
type memoryCartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]model.CartItem
}

func newMemoryCartStore() cart.Store {
	return &memoryCartStore{carts: make(map[uuid.UUID][]model.CartItem)}
}

func (s *memoryCartStore) Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[userID], nil
}

func (s *memoryCartStore) Save(ctx context.Context, userID uuid.UUID, items []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = items
	return nil
}

func (s *memoryCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	rewardRepo := repository.NewRewardRepository(testDB.Pool, logger)

	cartStore := newMemoryCartStore()

	engine, err := loyalty.NewEngine(loyalty.DefaultTiers())
	require.NoError(t, err)

	provider := payment.NewSimulator(logger)

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	cartService := service.NewCartService(cartStore, menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, menuRepo, cartService, engine, provider, logger)
	loyaltyService := service.NewLoyaltyService(engine, userRepo, rewardRepo, logger)

	// Initialize handlers
	menuHandler := handler.NewMenuHandler(menuService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService, logger)

	// Create router
	return router.New(menuHandler, cartHandler, orderHandler, loyaltyHandler, "test-api-key", logger)
}

func apiRequest(t *testing.T, server http.Handler, method, path string, userID uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", "test-api-key")
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func TestMenuAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/menu returns all items", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		w := apiRequest(t, server, http.MethodGet, "/api/menu", uuid.Nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var items []model.MenuItem
		require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		assert.Len(t, items, 5)
	})

	t.Run("GET /api/menu filters by category", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		w := apiRequest(t, server, http.MethodGet, "/api/menu?category=tea", uuid.Nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var items []model.MenuItem
		require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "Matcha Latte", items[0].Name)
	})

	t.Run("GET /api/menu accepts the merchandise category", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		w := apiRequest(t, server, http.MethodGet, "/api/menu?category=merchandise", uuid.Nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var items []model.MenuItem
		require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "Travel Tumbler", items[0].Name)
	})

	t.Run("GET /api/menu/{id} returns 404 for non-existent item", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := apiRequest(t, server, http.MethodGet, "/api/menu/999", uuid.Nil, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/menu without API key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCheckoutAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	checkoutBody := func() *model.CheckoutRequest {
		return &model.CheckoutRequest{
			PickupTime:      time.Now().Add(30 * time.Minute),
			Location:        "Main St",
			PaymentMethodID: "pm_card_visa",
		}
	}

	t.Run("full order flow: cart, checkout, status, pickup", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, 0)

		// Add two lattes to the cart
		w := apiRequest(t, server, http.MethodPost, "/api/cart/items", userID, &model.AddCartItemRequest{
			MenuItemID: "1",
			Quantity:   2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var cartResp model.Cart
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cartResp))
		assert.Equal(t, 11.00, cartResp.Total)

		// Checkout
		w = apiRequest(t, server, http.MethodPost, "/api/checkout", userID, checkoutBody())
		require.Equal(t, http.StatusCreated, w.Code)

		var order model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
		assert.Equal(t, model.StatusPending, order.Status)
		assert.Equal(t, 11.00, order.Total)
		assert.Equal(t, 110, order.PointsEarned)
		assert.NotEmpty(t, order.PickupCode)

		// Cart is cleared after checkout
		w = apiRequest(t, server, http.MethodGet, "/api/cart", userID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cartResp))
		assert.Empty(t, cartResp.Items)

		// Points were credited
		w = apiRequest(t, server, http.MethodGet, "/api/loyalty/status", userID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var status model.LoyaltyStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, 110, status.Points)
		assert.Equal(t, "Bronze", status.Tier.Name)

		// Staff advances the order to ready
		for _, next := range []string{model.StatusPreparing, model.StatusReady} {
			w = apiRequest(t, server, http.MethodPatch, "/api/orders/"+order.ID.String()+"/status", uuid.Nil, &model.StatusUpdateRequest{Status: next})
			require.Equal(t, http.StatusOK, w.Code)
		}

		// Pickup QR renders as PNG
		w = apiRequest(t, server, http.MethodGet, "/api/orders/"+order.ID.String()+"/qr", uuid.Nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

		// Scanning the code completes the order
		w = apiRequest(t, server, http.MethodPost, "/api/pickup/validate", uuid.Nil, &model.ValidateCodeRequest{Code: order.PickupCode})
		require.Equal(t, http.StatusOK, w.Code)

		var completed model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&completed))
		assert.Equal(t, model.StatusCompleted, completed.Status)
	})

	t.Run("checkout with empty cart returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, 0)

		w := apiRequest(t, server, http.MethodPost, "/api/checkout", userID, checkoutBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp handler.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeEmptyCart, resp.Code)
	})

	t.Run("backward status transition returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, 0)

		w := apiRequest(t, server, http.MethodPost, "/api/cart/items", userID, &model.AddCartItemRequest{MenuItemID: "2", Quantity: 1})
		require.Equal(t, http.StatusCreated, w.Code)

		w = apiRequest(t, server, http.MethodPost, "/api/checkout", userID, checkoutBody())
		require.Equal(t, http.StatusCreated, w.Code)

		var order model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&order))

		// pending -> completed skips steps
		w = apiRequest(t, server, http.MethodPatch, "/api/orders/"+order.ID.String()+"/status", uuid.Nil, &model.StatusUpdateRequest{Status: model.StatusCompleted})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRewardsAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("redeem debits points and records the redemption", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, 1000)
		rewardID := SeedReward(t, testDB.Pool, "Free Pastry", 750)

		w := apiRequest(t, server, http.MethodPost, "/api/rewards/"+rewardID.String()+"/redeem", userID, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var redemption model.Redemption
		require.NoError(t, json.NewDecoder(w.Body).Decode(&redemption))
		assert.Equal(t, userID, redemption.UserID)
		assert.Equal(t, rewardID, redemption.RewardID)

		w = apiRequest(t, server, http.MethodGet, "/api/loyalty/status", userID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var status model.LoyaltyStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, 250, status.Points)
	})

	t.Run("redeem with insufficient points returns 409 and keeps balance", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, 500)
		rewardID := SeedReward(t, testDB.Pool, "Free Drink", 1000)

		w := apiRequest(t, server, http.MethodPost, "/api/rewards/"+rewardID.String()+"/redeem", userID, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = apiRequest(t, server, http.MethodGet, "/api/loyalty/status", userID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var status model.LoyaltyStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, 500, status.Points)
	})

	t.Run("rewards list filters by affordability", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedReward(t, testDB.Pool, "$5 Off", 500)
		SeedReward(t, testDB.Pool, "Free Drink", 1000)

		w := apiRequest(t, server, http.MethodGet, "/api/rewards?points_cost=lte.600&order=points_cost.desc", uuid.Nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rewards []model.Reward
		require.NoError(t, json.NewDecoder(w.Body).Decode(&rewards))
		require.Len(t, rewards, 1)
		assert.Equal(t, "$5 Off", rewards[0].Name)
	})

	t.Run("loyalty tiers are public to authenticated clients", func(t *testing.T) {
		w := apiRequest(t, server, http.MethodGet, "/api/loyalty/tiers", uuid.Nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var tiers []loyalty.Tier
		require.NoError(t, json.NewDecoder(w.Body).Decode(&tiers))
		assert.Len(t, tiers, 4)
	})
}

func TestAdminAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/admin/stats aggregates today's orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, 0)

		for i := 0; i < 2; i++ {
			w := apiRequest(t, server, http.MethodPost, "/api/cart/items", userID, &model.AddCartItemRequest{MenuItemID: "2", Quantity: 1})
			require.Equal(t, http.StatusCreated, w.Code)

			w = apiRequest(t, server, http.MethodPost, "/api/checkout", userID, &model.CheckoutRequest{
				PickupTime:      time.Now().Add(30 * time.Minute),
				Location:        "Main St",
				PaymentMethodID: "pm_card_visa",
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := apiRequest(t, server, http.MethodGet, "/api/admin/stats", uuid.Nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stats model.DashboardStats
		require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
		assert.Equal(t, 2, stats.TodayOrders)
		assert.Equal(t, 9.00, stats.TodayRevenue)
		assert.Equal(t, 2, stats.ActiveByStatus[model.StatusPending])
	})
}
