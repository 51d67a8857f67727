package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"brewbean/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userIDHeader carries the authenticated user's ID. Request identity is
// out of scope here; the gateway in front of this service sets it.
const userIDHeader = "X-User-ID"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service failure onto an HTTP response. Domain
// errors carry their code; anything else is an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := domainErrorStatus(domainErr.Code)
		logger.Warn().
			Str("code", domainErr.Code).
			Int("status", status).
			Str("error", domainErr.Message).
			Msg("domain error")
		writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  model.ErrCodeInternalError,
	})
}

// domainErrorStatus maps domain error codes onto HTTP statuses.
func domainErrorStatus(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInsufficientPts:
		return http.StatusConflict
	case model.ErrCodePaymentFailed:
		return http.StatusPaymentRequired
	case model.ErrCodeInvalidQuantity,
		model.ErrCodeEmptyCart,
		model.ErrCodeInvalidTransition,
		model.ErrCodeMenuItemNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requestUserID extracts the calling user's ID from the request header.
func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return uuid.Nil, errors.New("missing " + userIDHeader + " header")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid " + userIDHeader + " header")
	}
	return id, nil
}
