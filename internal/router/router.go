package router

import (
	"net/http"
	"strings"

	"brewbean/internal/handler"
	"brewbean/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	menuHandler *handler.MenuHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	loyaltyHandler *handler.LoyaltyHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Menu handler function
	menuRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific menu item ID
		if r.URL.Path != "/api/menu" && r.URL.Path != "/api/menu/" {
			menuHandler.GetByID(w, r)
			return
		}
		menuHandler.GetAll(w, r)
	}

	// Register menu routes (both with and without trailing slash)
	mux.HandleFunc("/api/menu", menuRouteHandler)
	mux.HandleFunc("/api/menu/", menuRouteHandler)

	// Cart handler function
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/":
			switch r.Method {
			case http.MethodGet:
				cartHandler.Get(w, r)
			case http.MethodDelete:
				cartHandler.Clear(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}

		case r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/":
			if r.Method == http.MethodPost {
				cartHandler.AddItem(w, r)
				return
			}
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		case strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			switch r.Method {
			case http.MethodPatch:
				cartHandler.UpdateItem(w, r)
			case http.MethodDelete:
				cartHandler.RemoveItem(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Checkout endpoint
	mux.HandleFunc("/api/checkout", orderHandler.Checkout)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			orderHandler.List(w, r)
			return
		}

		switch {
		case strings.HasSuffix(r.URL.Path, "/status"):
			if r.Method != http.MethodPatch {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			orderHandler.UpdateStatus(w, r)

		case strings.HasSuffix(r.URL.Path, "/qr"):
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			orderHandler.PickupQR(w, r)

		default:
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			orderHandler.GetByID(w, r)
		}
	}

	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Pickup code validation for the counter scanner
	mux.HandleFunc("/api/pickup/validate", orderHandler.ValidatePickup)

	// Loyalty routes
	mux.HandleFunc("/api/loyalty/tiers", loyaltyHandler.Tiers)
	mux.HandleFunc("/api/loyalty/status", loyaltyHandler.Status)

	// Reward handler function
	rewardRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/rewards" || r.URL.Path == "/api/rewards/" {
			loyaltyHandler.Rewards(w, r)
			return
		}

		if strings.HasSuffix(r.URL.Path, "/redeem") {
			loyaltyHandler.Redeem(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	mux.HandleFunc("/api/rewards", rewardRouteHandler)
	mux.HandleFunc("/api/rewards/", rewardRouteHandler)

	// Staff dashboard
	mux.HandleFunc("/api/admin/stats", orderHandler.Stats)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
