package handler

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"kassenbon/internal/render"
	"kassenbon/internal/synth"

	"github.com/rs/zerolog"
)

// ReceiptHandler serves the local preview API: synthesized receipts as PNG
// without going through Telegram. Intended for eyeballing layout changes.
type ReceiptHandler struct {
	factory  *synth.Factory
	renderer render.Renderer
	maxDays  int
	logger   zerolog.Logger
}

// NewReceiptHandler creates a new receipt preview handler. maxDays bounds
// the count parameter of the days endpoint, same as the bot's command bound.
func NewReceiptHandler(factory *synth.Factory, renderer render.Renderer, maxDays int, logger zerolog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		factory:  factory,
		renderer: renderer,
		maxDays:  maxDays,
		logger:   logger.With().Str("handler", "receipt").Logger(),
	}
}

// Preview handles GET /api/v1/receipts/preview?date=YYYY-MM-DD&seed=N.
// The date defaults to yesterday; a seed makes the preview reproducible.
func (h *ReceiptHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	date := time.Now().AddDate(0, 0, -1)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date parameter, expected YYYY-MM-DD", h.logger)
			return
		}
		date = parsed
	}

	seed := time.Now().UnixNano()
	if seedStr := r.URL.Query().Get("seed"); seedStr != "" {
		parsed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid seed parameter", h.logger)
			return
		}
		seed = parsed
	}

	syn := h.factory.Synthesizer(rand.New(rand.NewSource(seed)))
	rec := syn.Receipt(date)
	image := h.renderer.Render(r.Context(), rec)

	h.logger.Debug().
		Str("date", date.Format("2006-01-02")).
		Int64("seed", seed).
		Int("png_bytes", len(image)).
		Msg("rendered preview receipt")

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(image)
}

// businessDaysResponse is the JSON shape of the days endpoint.
type businessDaysResponse struct {
	Policy string   `json:"policy"`
	Days   []string `json:"days"`
}

// BusinessDays handles GET /api/v1/receipts/days?count=N.
func (h *ReceiptHandler) BusinessDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	count := 5 // default
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid count parameter", h.logger)
			return
		}
		count = parsed
	}

	if count < 1 || count > h.maxDays {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("count must be between 1 and %d", h.maxDays), h.logger)
		return
	}

	syn := h.factory.Synthesizer(rand.New(rand.NewSource(time.Now().UnixNano())))
	days, err := syn.BusinessDays(count, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	resp := businessDaysResponse{
		Policy: string(h.factory.Policy()),
		Days:   make([]string, 0, len(days)),
	}
	for _, day := range days {
		resp.Days = append(resp.Days, day.Format("2006-01-02"))
	}

	writeJSON(w, http.StatusOK, resp)
}
