package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

type fakeInsight struct {
	answer   string
	deadline time.Time
}

func (f *fakeInsight) BusinessInsight(ctx context.Context, txs []sales.Transaction, products []catalog.Product, query string) string {
	f.deadline, _ = ctx.Deadline()
	return f.answer
}

func newInsightRig() (*fakeInsight, *chi.Mux) {
	gen := &fakeInsight{answer: "Penjualan stabil."}
	h := &InsightHandler{
		Products:     &fakeProducts{products: map[string]catalog.Product{}},
		Transactions: &fakeTxLister{},
		Insight:      gen,
	}
	r := chi.NewRouter()
	r.Use(middleware.Timeout(15 * time.Second))
	h.Register(r)
	return gen, r
}

func TestInsightReturnsAnswer(t *testing.T) {
	_, r := newInsightRig()

	w := do(r, http.MethodPost, "/insight", `{"query":"bagaimana performa?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp insightResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Penjualan stabil.", resp.Answer)
}

func TestInsightRequiresQuery(t *testing.T) {
	_, r := newInsightRig()
	w := do(r, http.MethodPost, "/insight", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsightDeadlineFitsRouterTimeout(t *testing.T) {
	gen, r := newInsightRig()

	start := time.Now()
	w := do(r, http.MethodPost, "/insight", `{"query":"halo"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.False(t, gen.deadline.IsZero())
	assert.LessOrEqual(t, gen.deadline.Sub(start), 15*time.Second)
}
