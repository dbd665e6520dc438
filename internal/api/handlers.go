package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/drafts"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/ebay"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/fx"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/profit"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/shipping"
)

// Handlers exposes the core operations over HTTP. The draft store is
// optional; endpoints depending on it answer 503 when it is absent.
type Handlers struct {
	resolver  *ebay.Resolver
	converter *fx.Converter
	drafts    *drafts.Store
	logger    *slog.Logger
}

func NewHandlers(resolver *ebay.Resolver, converter *fx.Converter, store *drafts.Store, logger *slog.Logger) *Handlers {
	return &Handlers{
		resolver:  resolver,
		converter: converter,
		drafts:    store,
		logger:    logger.With("component", "api"),
	}
}

type resolveRequest struct {
	Input string `json:"input"`
	Debug bool   `json:"debug"`
}

type resolveResponse struct {
	Item        *models.Item               `json:"item"`
	Diagnostics *models.ResolveDiagnostics `json:"diagnostics,omitempty"`
}

func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Input == "" {
		h.respondError(w, http.StatusBadRequest, "input is required")
		return
	}

	item, diag, err := h.resolver.Resolve(r.Context(), req.Input)
	if err != nil {
		h.logger.Warn("resolution failed", "input", req.Input, "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, ebay.ErrIdentifierNotFound) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, err.Error())
		return
	}

	resp := resolveResponse{Item: item}
	if req.Debug {
		resp.Diagnostics = diag
	}
	h.respondJSON(w, http.StatusOK, resp)
}

type quoteRequest struct {
	WeightGrams int      `json:"weight_grams"`
	Method      string   `json:"method"`
	Length      *float64 `json:"length,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
}

func (h *Handlers) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WeightGrams <= 0 {
		h.respondError(w, http.StatusBadRequest, "weight_grams must be positive")
		return
	}

	var dims *models.Dimensions
	if req.Length != nil && req.Width != nil && req.Height != nil {
		dims = &models.Dimensions{Length: *req.Length, Width: *req.Width, Height: *req.Height}
	}

	quote := shipping.Quote(req.WeightGrams, req.Method, dims)
	h.respondJSON(w, http.StatusOK, quote)
}

type convertResponse struct {
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Source    string  `json:"source"`
}

func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "amount must be a number")
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.respondError(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}

	converted, source, _ := h.converter.Convert(r.Context(), amount, from, to)
	h.respondJSON(w, http.StatusOK, convertResponse{
		Amount:    amount,
		Converted: converted,
		From:      from,
		To:        to,
		Source:    source,
	})
}

type profitRequest struct {
	SellingPrice float64 `json:"selling_price"`
	FeeRate      float64 `json:"fee_rate"`
	ShippingCost float64 `json:"shipping_cost"`
	SupplierCost float64 `json:"supplier_cost"`
}

func (h *Handlers) Profit(w http.ResponseWriter, r *http.Request) {
	var req profitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := profit.Compute(req.SellingPrice, req.FeeRate, req.ShippingCost, req.SupplierCost)
	h.respondJSON(w, http.StatusOK, result)
}

type saveDraftRequest struct {
	Item   *models.Item         `json:"item"`
	Profit *models.ProfitResult `json:"profit"`
}

func (h *Handlers) SaveDraft(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		h.respondError(w, http.StatusServiceUnavailable, "draft store not configured")
		return
	}

	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item == nil {
		h.respondError(w, http.StatusBadRequest, "item is required")
		return
	}
	if problems := req.Item.Validate(); len(problems) > 0 {
		h.respondError(w, http.StatusBadRequest, problems[0])
		return
	}

	id, err := h.drafts.Save(r.Context(), req.Item, req.Profit)
	if err != nil {
		h.logger.Error("failed to save draft", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handlers) ListDrafts(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		h.respondError(w, http.StatusServiceUnavailable, "draft store not configured")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.drafts.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list drafts", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list drafts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"drafts": list})
}

func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		h.respondError(w, http.StatusServiceUnavailable, "draft store not configured")
		return
	}

	draft, err := h.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, drafts.ErrDraftNotFound) {
		h.respondError(w, http.StatusNotFound, "draft not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get draft", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get draft")
		return
	}

	h.respondJSON(w, http.StatusOK, draft)
}

func (h *Handlers) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		h.respondError(w, http.StatusServiceUnavailable, "draft store not configured")
		return
	}

	err := h.drafts.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, drafts.ErrDraftNotFound) {
		h.respondError(w, http.StatusNotFound, "draft not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete draft", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to delete draft")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
