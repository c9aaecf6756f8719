package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/logx"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoPaymentMethod  = errors.New("no payment method chosen")
	ErrInsufficientCash = errors.New("cash received is less than total")
)

// TransactionStore is the persistence contract the checkout workflow needs.
type TransactionStore interface {
	CreateHeader(ctx context.Context, t Transaction) error
	CreateItems(ctx context.Context, items []TransactionItem) error
	Delete(ctx context.Context, id string) error
}

// StockStore mutates on-hand stock. Updates are independent single-row
// operations; the workflow never requires them to be atomic as a group.
type StockStore interface {
	GetStock(ctx context.Context, productID string) (int, error)
	SetStock(ctx context.Context, productID string, stock int) error
}

// Payment is the cashier's chosen settlement for one checkout.
type Payment struct {
	Method       PaymentMethod
	CashReceived float64
}

// Workflow converts a finalized cart into a durable transaction and
// reconciles stock. Transaction persistence is strict with a compensating
// delete; stock reconciliation is best-effort.
type Workflow struct {
	Transactions TransactionStore
	Stock        StockStore
	Service      string
}

// Checkout runs the full sequence: validate, capture, persist header,
// persist items (rolling back the header if this fails), then decrement
// stock per item. Once items are committed the sale is final regardless of
// stock-reconciliation outcome.
func (w *Workflow) Checkout(ctx context.Context, cart *Cart, pay Payment) (*Transaction, error) {
	total := cart.Total()
	if cart.Empty() {
		return nil, ErrEmptyCart
	}
	if !pay.Method.Valid() {
		return nil, ErrNoPaymentMethod
	}
	if pay.Method == PaymentCash && pay.CashReceived < total {
		return nil, ErrInsufficientCash
	}

	tx := Transaction{
		ID:            uuid.NewString(),
		Date:          time.Now().UTC(),
		Total:         total,
		PaymentMethod: pay.Method,
	}
	for _, l := range cart.Lines() {
		tx.Items = append(tx.Items, TransactionItem{
			TransactionID: tx.ID,
			ProductID:     l.Product.ID,
			ProductName:   l.Product.Name,
			Quantity:      l.Quantity,
			Price:         l.Product.Price,
		})
	}

	if err := w.Transactions.CreateHeader(ctx, tx); err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	if err := w.Transactions.CreateItems(ctx, tx.Items); err != nil {
		// Compensate: delete the header so no item-less transaction survives.
		// The original item error is the one surfaced either way.
		if delErr := w.Transactions.Delete(ctx, tx.ID); delErr != nil {
			logx.Log(logx.Fields{
				Service:       w.Service,
				TransactionID: tx.ID,
				Step:          "rollback_header",
				Status:        "failed",
				Message:       delErr.Error(),
			})
		}
		return nil, fmt.Errorf("persist transaction items: %w", err)
	}

	w.reconcileStock(ctx, tx)
	return &tx, nil
}

// reconcileStock decrements on-hand stock per sold item, clamping at zero.
// Items are mutually independent so the updates run concurrently. Failures
// are logged and never surfaced; the sale already counts.
func (w *Workflow) reconcileStock(ctx context.Context, tx Transaction) {
	g, ctx := errgroup.WithContext(ctx)
	for _, item := range tx.Items {
		item := item
		g.Go(func() error {
			if err := w.decrement(ctx, item); err != nil {
				logx.Log(logx.Fields{
					Service:       w.Service,
					TransactionID: tx.ID,
					ProductID:     item.ProductID,
					Step:          "stock_reconcile",
					Status:        "failed",
					Message:       err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (w *Workflow) decrement(ctx context.Context, item TransactionItem) error {
	stock, err := w.Stock.GetStock(ctx, item.ProductID)
	if err != nil {
		return err
	}
	newStock := stock - item.Quantity
	if newStock < 0 {
		newStock = 0
	}
	return w.Stock.SetStock(ctx, item.ProductID, newStock)
}
