package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"brewbean/internal/model"
	"brewbean/internal/repository"
	"brewbean/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout, order tracking and fulfillment requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "nil") {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests. Collection filters use the
// <column>=<op>.<value> syntax with order and limit parameters, e.g.
// /api/orders?user_id=eq.<id>&order=created_at.desc&limit=20.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	q, err := repository.ParseQuery(r.URL.Query(), repository.OrderQueryColumns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromPath(w, r, "")
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromPath(w, r, "/status")
	if !ok {
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// PickupQR handles GET /api/orders/{id}/qr requests, returning a PNG.
func (h *OrderHandler) PickupQR(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromPath(w, r, "/qr")
	if !ok {
		return
	}

	png, err := h.service.PickupQR(r.Context(), orderID, 0)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ValidatePickup handles POST /api/pickup/validate requests. Scanning a
// ready order marks it completed.
func (h *OrderHandler) ValidatePickup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.ValidateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "pickup code is required", h.logger)
		return
	}

	order, err := h.service.ValidatePickupCode(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Stats handles GET /api/admin/stats requests.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// orderIDFromPath parses the order ID segment from /api/orders/{id}
// paths, trimming the given suffix first. It writes the error response
// itself and reports success through the second return value.
func (h *OrderHandler) orderIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (uuid.UUID, bool) {
	path := strings.TrimSuffix(r.URL.Path, suffix)
	idStr := strings.TrimPrefix(path, "/api/orders/")

	if idStr == "" || strings.Contains(idStr, "/") {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}

	return orderID, true
}
