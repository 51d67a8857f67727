package handler

import (
	"net/http"
	"strings"

	"brewbean/internal/model"
	"brewbean/internal/repository"
	"brewbean/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LoyaltyHandler handles loyalty tier and reward HTTP requests.
type LoyaltyHandler struct {
	service service.LoyaltyService
	logger  zerolog.Logger
}

// NewLoyaltyHandler creates a new loyalty handler.
func NewLoyaltyHandler(service service.LoyaltyService, logger zerolog.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		logger:  logger.With().Str("handler", "loyalty").Logger(),
	}
}

// Tiers handles GET /api/loyalty/tiers requests.
func (h *LoyaltyHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Tiers())
}

// Status handles GET /api/loyalty/status requests for the user named by
// the X-User-ID header.
func (h *LoyaltyHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Rewards handles GET /api/rewards requests. Filters use the
// <column>=<op>.<value> syntax, e.g. ?points_cost=lte.750&order=points_cost.desc.
func (h *LoyaltyHandler) Rewards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	q, err := repository.ParseQuery(r.URL.Query(), repository.RewardQueryColumns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	rewards, err := h.service.Rewards(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

// Redeem handles POST /api/rewards/{id}/redeem requests.
func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, err := requestUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/rewards/"), "/redeem")
	rewardID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reward ID format", h.logger)
		return
	}

	redemption, err := h.service.Redeem(r.Context(), userID, rewardID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, redemption)
}
