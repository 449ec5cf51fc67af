package handler

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kassenbon/internal/catalog"
	"kassenbon/internal/model"
	"kassenbon/internal/render"
	"kassenbon/internal/synth"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *ReceiptHandler {
	t.Helper()

	factory, err := synth.NewFactory(catalog.Default(), synth.WeekdaysOnly, 7.0, zerolog.Nop())
	require.NoError(t, err)

	renderer := render.New(render.DefaultOptions(""), zerolog.Nop())
	return NewReceiptHandler(factory, renderer, 30, zerolog.Nop())
}

func TestReceiptHandler_Preview(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/preview?date=2026-08-28&seed=42", nil)
	rec := httptest.NewRecorder()

	h.Preview(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 900, img.Bounds().Dy())
}

func TestReceiptHandler_Preview_SeedIsReproducible(t *testing.T) {
	h := newTestHandler(t)

	render := func() []byte {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/preview?date=2026-08-28&seed=7", nil)
		rec := httptest.NewRecorder()
		h.Preview(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.Bytes()
	}

	assert.Equal(t, render(), render())
}

func TestReceiptHandler_Preview_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{
			name:   "Malformed date",
			target: "/api/v1/receipts/preview?date=28.08.2026",
		},
		{
			name:   "Non-numeric seed",
			target: "/api/v1/receipts/preview?seed=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			h.Preview(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.CorrelationID)
		})
	}
}

func TestReceiptHandler_Preview_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/preview", nil)
	rec := httptest.NewRecorder()

	h.Preview(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReceiptHandler_BusinessDays(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/days?count=3", nil)
	rec := httptest.NewRecorder()

	h.BusinessDays(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp businessDaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "weekdays", resp.Policy)
	require.Len(t, resp.Days, 3)
	for _, day := range resp.Days {
		parsed, err := time.Parse("2006-01-02", day)
		require.NoError(t, err)
		assert.True(t, parsed.Before(time.Now()))
	}
}

func TestReceiptHandler_BusinessDays_InvalidCount(t *testing.T) {
	for _, target := range []string{
		"/api/v1/receipts/days?count=abc",
		"/api/v1/receipts/days?count=0",
		"/api/v1/receipts/days?count=-5",
		"/api/v1/receipts/days?count=31",
		"/api/v1/receipts/days?count=100000",
	} {
		h := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		h.BusinessDays(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %q", target)
	}
}

func TestReceiptHandler_BusinessDays_MaxCountAccepted(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/days?count=30", nil)
	rec := httptest.NewRecorder()

	h.BusinessDays(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp businessDaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Days, 30)
}
