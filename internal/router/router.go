package router

import (
	"net/http"

	"kassenbon/internal/handler"
	"kassenbon/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates the preview API router with all routes and middleware
// configured.
func New(receiptHandler *handler.ReceiptHandler, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/v1/receipts/preview", receiptHandler.Preview)
	mux.HandleFunc("/api/v1/receipts/days", receiptHandler.BusinessDays)

	// Apply middleware in order: Recovery -> Logging -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
