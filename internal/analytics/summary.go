// Package analytics derives dashboard read-models from repository data. All
// functions are pure; they hold no invariants of their own.
package analytics

import (
	"sort"
	"time"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

// LowStockThreshold marks products that need restocking attention.
const LowStockThreshold = 10

type Summary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTransactions int     `json:"total_transactions"`
	TodayRevenue      float64 `json:"today_revenue"`
	RevenueChange     float64 `json:"revenue_change"`
	LowStockCount     int     `json:"low_stock_count"`
}

type DailySales struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

func Summarize(txs []sales.Transaction, products []catalog.Product, now time.Time) Summary {
	var s Summary
	s.TotalTransactions = len(txs)

	today := now.UTC().Format("2006-01-02")
	yesterday := now.UTC().AddDate(0, 0, -1).Format("2006-01-02")
	var yesterdayRevenue float64
	for _, t := range txs {
		s.TotalRevenue += t.Total
		switch t.Date.UTC().Format("2006-01-02") {
		case today:
			s.TodayRevenue += t.Total
		case yesterday:
			yesterdayRevenue += t.Total
		}
	}
	if yesterdayRevenue > 0 {
		s.RevenueChange = (s.TodayRevenue - yesterdayRevenue) / yesterdayRevenue * 100
	}

	for _, p := range products {
		if p.Stock < LowStockThreshold {
			s.LowStockCount++
		}
	}
	return s
}

// DailySeries returns per-day revenue and transaction counts for the last
// `days` days, oldest first, including days with no sales.
func DailySeries(txs []sales.Transaction, days int, now time.Time) []DailySales {
	out := make([]DailySales, 0, days)
	byDay := map[string]*DailySales{}
	for i := days - 1; i >= 0; i-- {
		date := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DailySales{Date: date})
		byDay[date] = &out[len(out)-1]
	}
	for _, t := range txs {
		if d, ok := byDay[t.Date.UTC().Format("2006-01-02")]; ok {
			d.Revenue += t.Total
			d.Transactions++
		}
	}
	return out
}

// TopProducts ranks products by revenue across all transactions, best first.
func TopProducts(txs []sales.Transaction, n int) []ProductSales {
	agg := map[string]*ProductSales{}
	var order []string
	for _, t := range txs {
		for _, it := range t.Items {
			ps, ok := agg[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.ProductName}
				agg[it.ProductID] = ps
				order = append(order, it.ProductID)
			}
			ps.Quantity += it.Quantity
			ps.Revenue += it.Price * float64(it.Quantity)
		}
	}

	out := make([]ProductSales, 0, len(order))
	for _, id := range order {
		out = append(out, *agg[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentTransactions returns the n newest transactions.
func RecentTransactions(txs []sales.Transaction, n int) []sales.Transaction {
	sorted := make([]sales.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
