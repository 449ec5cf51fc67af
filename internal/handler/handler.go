package handler

import (
	"encoding/json"
	"net/http"

	"kassenbon/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

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
// Each error carries a correlation id so a client report can be matched to
// the server log line.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	correlationID := uuid.NewString()
	logger.Error().
		Str("error", message).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         message,
		CorrelationID: correlationID,
	})
}
