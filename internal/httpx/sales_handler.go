package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	kafkax "github.com/reskianugrahsari/aplikasi-kasir/internal/kafka"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/metrics"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

type TransactionLister interface {
	List(ctx context.Context) ([]sales.Transaction, error)
}

type CheckoutRunner interface {
	Checkout(ctx context.Context, cart *sales.Cart, pay sales.Payment) (*sales.Transaction, error)
}

type SalesHandler struct {
	Carts        *CartStore
	Products     ProductStore
	Transactions TransactionLister
	Workflow     CheckoutRunner
	Snapshot     SnapshotReader
	Producer     EventPublisher
	Metrics      *metrics.ServerMetrics
	Service      string
}

func (h *SalesHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addCartItem)
	r.Patch("/cart/items/{productID}", h.changeCartItem)
	r.Delete("/cart", h.clearCart)
	r.Post("/checkout", h.checkout)
	r.Get("/transactions", h.listTransactions)
}

type cartView struct {
	Lines    []sales.Line `json:"lines"`
	Subtotal float64      `json:"subtotal"`
	TaxRate  float64      `json:"tax_rate"`
	Total    float64      `json:"total"`
}

func viewOf(c *sales.Cart) cartView {
	lines := c.Lines()
	if lines == nil {
		lines = []sales.Line{}
	}
	return cartView{
		Lines:    lines,
		Subtotal: c.Subtotal(),
		TaxRate:  sales.TaxRate,
		Total:    c.Total(),
	}
}

func (h *SalesHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart := h.Carts.Get(sessionToken(r.Context()))
	writeJSON(w, http.StatusOK, viewOf(cart))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
}

func (h *SalesHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing product_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Products.Get(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	cart := h.Carts.Get(sessionToken(r.Context()))
	cart.AddItem(p)
	writeJSON(w, http.StatusOK, viewOf(cart))
}

type changeItemReq struct {
	Delta int `json:"delta"`
}

func (h *SalesHandler) changeCartItem(w http.ResponseWriter, r *http.Request) {
	var req changeItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}
	cart := h.Carts.Get(sessionToken(r.Context()))
	cart.ChangeQuantity(chi.URLParam(r, "productID"), req.Delta)
	writeJSON(w, http.StatusOK, viewOf(cart))
}

func (h *SalesHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Carts.Get(sessionToken(r.Context())).Clear()
	w.WriteHeader(http.StatusNoContent)
}

type checkoutReq struct {
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	CashReceived  float64             `json:"cash_received"`
}

type checkoutResp struct {
	Transaction *sales.Transaction `json:"transaction"`
	Change      float64            `json:"change"`
}

func (h *SalesHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cart := h.Carts.Get(sessionToken(r.Context()))
	tx, err := h.Workflow.Checkout(ctx, cart, sales.Payment{
		Method:       req.PaymentMethod,
		CashReceived: req.CashReceived,
	})
	if err != nil {
		h.countCheckout(string(req.PaymentMethod), "failed")
		switch {
		case errors.Is(err, sales.ErrEmptyCart),
			errors.Is(err, sales.ErrNoPaymentMethod),
			errors.Is(err, sales.ErrInsufficientCash):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	// The sale is final; the session starts over with an empty cart.
	cart.Clear()
	h.countCheckout(string(tx.PaymentMethod), "completed")
	h.publishCreated(tx)

	var change float64
	if tx.PaymentMethod == sales.PaymentCash {
		change = req.CashReceived - tx.Total
	}
	writeJSON(w, http.StatusCreated, checkoutResp{Transaction: tx, Change: change})
}

// listTransactions serves from the database, falling back to the local
// snapshot when it is unreachable.
func (h *SalesHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	txs, err := h.Transactions.List(ctx)
	if err != nil {
		log.Printf("list transactions: %v, serving snapshot", err)
		if h.Snapshot != nil {
			if cached, snapErr := h.Snapshot.Transactions(); snapErr == nil {
				w.Header().Set("X-Data-Source", "snapshot")
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if txs == nil {
		txs = []sales.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *SalesHandler) countCheckout(method, status string) {
	if h.Metrics != nil {
		h.Metrics.Checkouts.WithLabelValues(method, status).Inc()
	}
}

func (h *SalesHandler) publishCreated(tx *sales.Transaction) {
	if h.Producer == nil {
		return
	}
	ev := sales.Envelope{
		EventID:      uuid.NewString(),
		EventType:    sales.EventTransactionCreated,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
	}
	ev.Payload = kafkax.MustMarshal(sales.TransactionCreatedPayload{
		TransactionID: tx.ID,
		Total:         tx.Total,
		ItemCount:     len(tx.Items),
	})
	h.Producer.Publish(sales.PartitionKey(tx.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(sales.EventTransactionCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
