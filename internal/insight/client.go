// Package insight talks to the hosted Gemini API to summarize business data.
// Every failure degrades to a fixed user-visible message; nothing here may
// ever block or fail a checkout or inventory operation.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

// TransactionWindow bounds how much history goes into one request, keeping
// the payload inside the provider's limits.
const TransactionWindow = 50

const (
	msgNoAPIKey    = "API Key tidak ditemukan. Harap konfigurasi API Key untuk menggunakan fitur AI."
	msgEmptyAnswer = "Maaf, saya tidak dapat menghasilkan analisis saat ini."
	msgAPIError    = "Terjadi kesalahan saat menghubungi layanan AI. Coba lagi nanti."
)

type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

func New(baseURL, apiKey, model string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second)
	return &Client{http: c, apiKey: apiKey, model: model}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// BusinessInsight answers a free-text question over the sales history and
// current inventory. It always returns a user-presentable string.
func (c *Client) BusinessInsight(ctx context.Context, txs []sales.Transaction, products []catalog.Product, query string) string {
	if c.apiKey == "" {
		return msgNoAPIKey
	}

	prompt := buildPrompt(txs, products, query)
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		log.Printf("insight: gemini request: %v", err)
		return msgAPIError
	}
	if resp.IsError() || out.Error != nil {
		log.Printf("insight: gemini status %s", resp.Status())
		return msgAPIError
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return msgEmptyAnswer
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return msgEmptyAnswer
	}
	return text
}

type saleSummary struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Items string  `json:"items"`
}

// buildPrompt condenses at most TransactionWindow transactions and the full
// product list into the model prompt. Repositories list transactions newest
// first; the prompt wants the newest window with the newest entry last.
func buildPrompt(txs []sales.Transaction, products []catalog.Product, query string) string {
	window := txs
	if len(window) > TransactionWindow {
		window = window[:TransactionWindow]
	}
	summaries := make([]saleSummary, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		t := window[i]
		names := make([]string, 0, len(t.Items))
		for _, it := range t.Items {
			names = append(names, fmt.Sprintf("%s (x%d)", it.ProductName, it.Quantity))
		}
		summaries = append(summaries, saleSummary{
			Date:  t.Date.Format(time.RFC3339),
			Total: t.Total,
			Items: strings.Join(names, ", "),
		})
	}
	salesJSON, _ := json.Marshal(summaries)

	stock := make([]string, 0, len(products))
	for _, p := range products {
		stock = append(stock, fmt.Sprintf("%s (Stock: %d)", p.Name, p.Stock))
	}

	return fmt.Sprintf(`Anda adalah asisten bisnis pintar untuk sebuah aplikasi kasir bernama "KasirPintar".

Data Penjualan Terakhir:
%s

Data Inventaris:
%s

Pertanyaan User: "%s"

Tugas:
Berikan analisis bisnis, saran, atau jawaban yang relevan berdasarkan data di atas.
Gunakan bahasa Indonesia yang profesional namun ramah.
Jika diminta saran promosi, berikan ide kreatif.
Jika diminta analisis performa, gunakan data penjualan.
Jawab dengan singkat dan padat (maksimal 2 paragraf).`,
		salesJSON, strings.Join(stock, ", "), query)
}
