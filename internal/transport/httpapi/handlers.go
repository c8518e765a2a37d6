package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hellix17/cosmic-tracker/internal/ledger"
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/internal/normalizer"
	"github.com/hellix17/cosmic-tracker/internal/service"
	"github.com/hellix17/cosmic-tracker/utils"
	"github.com/shopspring/decimal"
)

const userIDHeader = "X-User-ID"

type TrackerService interface {
	SearchStocks(ctx context.Context, userID, query string) ([]model.SearchMatch, int64, error)
	GetStockSnapshot(ctx context.Context, userID, symbol string, searchSeq int64) (model.StockSnapshot, error)
	AddToPortfolio(ctx context.Context, userID, symbol string, shares decimal.Decimal) (model.PortfolioHolding, error)
	SetShares(ctx context.Context, userID, symbol string, shares decimal.Decimal) error
	RemoveFromPortfolio(ctx context.Context, userID, symbol string) error
	GetPortfolio(ctx context.Context, userID string) (model.PortfolioView, error)
	ExportPortfolio(ctx context.Context, userID string) (fileBytes []byte, filename, downloadLink string, err error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	service TrackerService
}

func NewHandler(service TrackerService) *Handler {
	return &Handler{service: service}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Search handles GET /api/v1/search?q=<query>.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	matches, seq, err := h.service.SearchStocks(r.Context(), userID, query)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, searchResponse{Matches: matches, SearchSeq: seq})
}

// GetStock handles GET /api/v1/stocks/{symbol}. The optional seq query
// parameter ties the lookup to a prior search so stale responses get dropped.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	symbol := mux.Vars(r)["symbol"]

	var seq int64
	if raw := r.URL.Query().Get("seq"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "seq must be a non-negative integer")
			return
		}
		seq = parsed
	}

	snap, err := h.service.GetStockSnapshot(r.Context(), userID, symbol, seq)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	// history has its own endpoint
	snap.PricePoints = nil
	respondJSON(w, http.StatusOK, snap)
}

// GetStockHistory handles GET /api/v1/stocks/{symbol}/history.
func (h *Handler) GetStockHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	symbol := mux.Vars(r)["symbol"]

	snap, err := h.service.GetStockSnapshot(r.Context(), userID, symbol, 0)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, historyResponse{Symbol: snap.Symbol, PricePoints: snap.PricePoints})
}

// GetPortfolio handles GET /api/v1/portfolio.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetPortfolio(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// AddHolding handles POST /api/v1/portfolio/holdings.
func (h *Handler) AddHolding(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	holding, err := h.service.AddToPortfolio(r.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, holding)
}

// SetHoldingShares handles PUT /api/v1/portfolio/holdings/{symbol}.
func (h *Handler) SetHoldingShares(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	symbol := mux.Vars(r)["symbol"]

	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetShares(r.Context(), userID, symbol, req.Shares); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveHolding handles DELETE /api/v1/portfolio/holdings/{symbol}.
func (h *Handler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	symbol := mux.Vars(r)["symbol"]

	if err := h.service.RemoveFromPortfolio(r.Context(), userID, symbol); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportPortfolio handles GET /api/v1/portfolio/export. With cloud storage
// configured the response is a download link, otherwise the file itself.
func (h *Handler) ExportPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	fileBytes, filename, downloadLink, err := h.service.ExportPortfolio(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if downloadLink != "" {
		respondJSON(w, http.StatusOK, exportResponse{DownloadLink: downloadLink, Filename: filename})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fileBytes)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		respondError(w, http.StatusBadRequest, userIDHeader+" header is required")
		return "", false
	}
	return userID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, normalizer.ErrInvalidSymbol),
		errors.Is(err, normalizer.ErrDataUnavailable),
		errors.Is(err, ledger.ErrHoldingNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidShareCount):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSuperseded):
		respondError(w, http.StatusConflict, err.Error())
	default:
		rqID := utils.GetRequestIDFromCtx(r.Context())
		slog.Error("unhandled service error", slog.String("rqID", rqID), slog.String("path", r.URL.Path), slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

type searchResponse struct {
	Matches   []model.SearchMatch `json:"matches"`
	SearchSeq int64               `json:"searchSeq"`
}

type historyResponse struct {
	Symbol      string             `json:"symbol"`
	PricePoints []model.PricePoint `json:"pricePoints"`
}

type holdingRequest struct {
	Symbol string          `json:"symbol,omitempty"`
	Shares decimal.Decimal `json:"shares"`
}

type exportResponse struct {
	DownloadLink string `json:"downloadLink"`
	Filename     string `json:"filename"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
