package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"brewbean/internal/model"
	"brewbean/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All operations act on the
// cart of the user identified by the X-User-ID header.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	cart, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var req model.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "required") {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cart)
}

// UpdateItem handles PATCH /api/cart/items/{itemID} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	itemID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item ID is required", h.logger)
		return
	}

	var req model.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{itemID} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	itemID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item ID is required", h.logger)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
