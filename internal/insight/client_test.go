package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

func geminiStub(t *testing.T, status int, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": answer}}}},
			},
		})
	}))
}

func TestBusinessInsightReturnsAnswer(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, "  Penjualan minggu ini naik 20%.  ")
	defer srv.Close()

	c := New(srv.URL, "test-key", "gemini-2.0-flash")
	got := c.BusinessInsight(context.Background(), nil, nil, "bagaimana performa minggu ini?")
	assert.Equal(t, "Penjualan minggu ini naik 20%.", got)
}

func TestBusinessInsightWithoutAPIKey(t *testing.T) {
	c := New("http://unused", "", "gemini-2.0-flash")
	got := c.BusinessInsight(context.Background(), nil, nil, "apa saja?")
	assert.Equal(t, msgNoAPIKey, got)
}

func TestBusinessInsightUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "gemini-2.0-flash")
	got := c.BusinessInsight(context.Background(), nil, nil, "halo")
	assert.Equal(t, msgAPIError, got)
}

func TestBusinessInsightEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "gemini-2.0-flash")
	got := c.BusinessInsight(context.Background(), nil, nil, "halo")
	assert.Equal(t, msgEmptyAnswer, got)
}

// history returns n transactions the way the repository lists them,
// newest first.
func history(n int) []sales.Transaction {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := make([]sales.Transaction, n)
	for i := range txs {
		txs[i] = sales.Transaction{
			ID:    "t",
			Date:  base.Add(time.Duration(n-1-i) * time.Minute),
			Total: float64(i),
		}
	}
	return txs
}

func TestBuildPromptBoundsWindow(t *testing.T) {
	txs := history(TransactionWindow + 25)
	prompt := buildPrompt(txs, nil, "q")

	// the newest transaction survives, the oldest falls out of the window
	assert.Contains(t, prompt, txs[0].Date.Format(time.RFC3339))
	assert.NotContains(t, prompt, txs[len(txs)-1].Date.Format(time.RFC3339))
	assert.Equal(t, TransactionWindow, strings.Count(prompt, `"date"`))
}

func TestBuildPromptOrdersNewestLast(t *testing.T) {
	txs := history(TransactionWindow + 25)
	prompt := buildPrompt(txs, nil, "q")

	newest := txs[0].Date.Format(time.RFC3339)
	oldestKept := txs[TransactionWindow-1].Date.Format(time.RFC3339)
	require.Contains(t, prompt, newest)
	require.Contains(t, prompt, oldestKept)
	assert.Greater(t, strings.Index(prompt, newest), strings.Index(prompt, oldestKept))
}

func TestBuildPromptIncludesInventoryAndQuery(t *testing.T) {
	txs := []sales.Transaction{{
		Date:  time.Now(),
		Total: 27500,
		Items: []sales.TransactionItem{{ProductName: "Nasi Goreng", Quantity: 2}},
	}}
	products := []catalog.Product{{Name: "Es Teh", Stock: 7}}

	prompt := buildPrompt(txs, products, "saran promosi?")
	require.Contains(t, prompt, "Nasi Goreng (x2)")
	assert.Contains(t, prompt, "Es Teh (Stock: 7)")
	assert.Contains(t, prompt, `"saran promosi?"`)
	assert.Contains(t, prompt, "KasirPintar")
}
