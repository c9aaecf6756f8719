package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

type InsightGenerator interface {
	BusinessInsight(ctx context.Context, txs []sales.Transaction, products []catalog.Product, query string) string
}

type InsightHandler struct {
	Products     ProductStore
	Transactions TransactionLister
	Insight      InsightGenerator
}

func (h *InsightHandler) Register(r chi.Router) {
	r.Post("/insight", h.generate)
}

type insightReq struct {
	Query string `json:"query"`
}

type insightResp struct {
	Answer string `json:"answer"`
}

// generate gathers the business data and asks the AI collaborator. The
// collaborator degrades to a fallback message on its own; this handler never
// returns a hard failure for AI errors.
func (h *InsightHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req insightReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing query"})
		return
	}

	// must stay inside the router-wide 15s timeout, which caps the request
	// regardless of what is set here
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	txs, err := h.Transactions.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	products, err := h.Products.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	answer := h.Insight.BusinessInsight(ctx, txs, products, req.Query)
	writeJSON(w, http.StatusOK, insightResp{Answer: answer})
}
