package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/analytics"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

type DashboardHandler struct {
	Products     ProductStore
	Transactions TransactionLister
}

func (h *DashboardHandler) Register(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
}

type dashboardResp struct {
	Summary            analytics.Summary        `json:"summary"`
	DailySales         []analytics.DailySales   `json:"daily_sales"`
	TopProducts        []analytics.ProductSales `json:"top_products"`
	RecentTransactions []sales.Transaction      `json:"recent_transactions"`
}

func (h *DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
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

	now := time.Now()
	writeJSON(w, http.StatusOK, dashboardResp{
		Summary:            analytics.Summarize(txs, products, now),
		DailySales:         analytics.DailySeries(txs, 7, now),
		TopProducts:        analytics.TopProducts(txs, 5),
		RecentTransactions: analytics.RecentTransactions(txs, 5),
	})
}
