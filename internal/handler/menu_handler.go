package handler

import (
	"net/http"
	"strings"

	"brewbean/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles catalogue HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// GetAll handles GET /api/menu requests, with an optional ?category=
// filter.
func (h *MenuHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	category := r.URL.Query().Get("category")

	items, err := h.service.GetAll(r.Context(), category)
	if err != nil {
		if strings.Contains(err.Error(), "unknown category") {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to retrieve menu", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/menu/{id} requests.
func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/menu/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "menu item ID is required", h.logger)
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve menu item", h.logger)
		return
	}

	if item == nil {
		writeError(w, http.StatusNotFound, "menu item not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
