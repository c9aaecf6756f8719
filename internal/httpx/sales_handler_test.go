package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
	kafkax "github.com/reskianugrahsari/aplikasi-kasir/internal/kafka"
	"github.com/reskianugrahsari/aplikasi-kasir/internal/sales"
)

type fakeProducts struct {
	products map[string]catalog.Product
	listErr  error
}

func (f *fakeProducts) List(ctx context.Context) ([]catalog.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Get(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Update(ctx context.Context, id string, u catalog.ProductUpdate) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	f.products[id] = p
	return p, nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeTxLister struct {
	txs []sales.Transaction
	err error
}

func (f *fakeTxLister) List(ctx context.Context) ([]sales.Transaction, error) {
	return f.txs, f.err
}

type fakeWorkflow struct {
	err  error
	last *sales.Transaction
}

func (f *fakeWorkflow) Checkout(ctx context.Context, cart *sales.Cart, pay sales.Payment) (*sales.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	tx := &sales.Transaction{
		ID:            "tx-1",
		Date:          time.Now().UTC(),
		Total:         cart.Total(),
		PaymentMethod: pay.Method,
	}
	for _, l := range cart.Lines() {
		tx.Items = append(tx.Items, sales.TransactionItem{
			TransactionID: tx.ID,
			ProductID:     l.Product.ID,
			ProductName:   l.Product.Name,
			Quantity:      l.Quantity,
			Price:         l.Product.Price,
		})
	}
	f.last = tx
	return tx, nil
}

type fakePublisher struct {
	keys   []string
	values [][]byte
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.keys = append(f.keys, string(key))
	f.values = append(f.values, value)
}

type fakeSnapshot struct {
	products []catalog.Product
	txs      []sales.Transaction
}

func (f *fakeSnapshot) Products() ([]catalog.Product, error) { return f.products, nil }
func (f *fakeSnapshot) Transactions() ([]sales.Transaction, error) { return f.txs, nil }

func newSalesRig(products map[string]catalog.Product) (*SalesHandler, *chi.Mux) {
	h := &SalesHandler{
		Carts:        NewCartStore(),
		Products:     &fakeProducts{products: products},
		Transactions: &fakeTxLister{},
		Workflow:     &fakeWorkflow{},
		Producer:     &fakePublisher{},
		Service:      "test",
	}
	r := chi.NewRouter()
	h.Register(r)
	return h, r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartLifecycle(t *testing.T) {
	_, r := newSalesRig(map[string]catalog.Product{
		"a": {ID: "a", Name: "Nasi Goreng", Price: 25000},
	})

	w := do(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view cartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Lines)

	w = do(r, http.MethodPost, "/cart/items", `{"product_id":"a"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/cart/items", `{"product_id":"a"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.InDelta(t, 50000, view.Subtotal, 1e-9)
	assert.InDelta(t, 55000, view.Total, 1e-9)

	w = do(r, http.MethodPatch, "/cart/items/a", `{"delta":-2}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Lines)

	w = do(r, http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAddUnknownProduct(t *testing.T) {
	_, r := newSalesRig(map[string]catalog.Product{})
	w := do(r, http.MethodPost, "/cart/items", `{"product_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutSuccess(t *testing.T) {
	h, r := newSalesRig(map[string]catalog.Product{
		"a": {ID: "a", Name: "Nasi Goreng", Price: 25000},
	})

	do(r, http.MethodPost, "/cart/items", `{"product_id":"a"}`)

	w := do(r, http.MethodPost, "/checkout", `{"payment_method":"cash","cash_received":30000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp checkoutResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Transaction)
	assert.InDelta(t, 27500, resp.Transaction.Total, 1e-9)
	assert.InDelta(t, 2500, resp.Change, 1e-9)

	// cart is reset for the next sale
	assert.True(t, h.Carts.Get("").Empty())

	// a creation event went out, keyed by transaction ID
	pub := h.Producer.(*fakePublisher)
	require.Len(t, pub.values, 1)
	assert.Equal(t, "tx-1", pub.keys[0])
	var env sales.Envelope
	require.NoError(t, kafkax.UnmarshalEnvelope(pub.values[0], &env))
	assert.Equal(t, sales.EventTransactionCreated, env.EventType)
	payload, err := kafkax.UnwrapPayload[sales.TransactionCreatedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", payload.TransactionID)
	assert.Equal(t, 1, payload.ItemCount)
	assert.InDelta(t, 27500, payload.Total, 1e-9)
}

func TestCheckoutQRISHasNoChange(t *testing.T) {
	_, r := newSalesRig(map[string]catalog.Product{
		"a": {ID: "a", Name: "Es Teh", Price: 5000},
	})
	do(r, http.MethodPost, "/cart/items", `{"product_id":"a"}`)

	w := do(r, http.MethodPost, "/checkout", `{"payment_method":"qris"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp checkoutResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Change)
}

func TestCheckoutValidationMapsTo422(t *testing.T) {
	for _, sentinel := range []error{sales.ErrEmptyCart, sales.ErrNoPaymentMethod, sales.ErrInsufficientCash} {
		h, r := newSalesRig(map[string]catalog.Product{})
		h.Workflow = &fakeWorkflow{err: sentinel}
		w := do(r, http.MethodPost, "/checkout", `{"payment_method":"cash","cash_received":1}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, sentinel.Error())
	}
}

func TestCheckoutRepositoryErrorMapsTo500(t *testing.T) {
	h, r := newSalesRig(map[string]catalog.Product{})
	h.Workflow = &fakeWorkflow{err: errors.New("db down")}
	w := do(r, http.MethodPost, "/checkout", `{"payment_method":"cash","cash_received":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// no event for a failed checkout
	assert.Empty(t, h.Producer.(*fakePublisher).values)
}

func TestListTransactionsSnapshotFallback(t *testing.T) {
	h, r := newSalesRig(map[string]catalog.Product{})
	h.Transactions = &fakeTxLister{err: errors.New("db unreachable")}
	h.Snapshot = &fakeSnapshot{txs: []sales.Transaction{{ID: "t1"}}}

	w := do(r, http.MethodGet, "/transactions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "snapshot", w.Header().Get("X-Data-Source"))

	var txs []sales.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "t1", txs[0].ID)
}
