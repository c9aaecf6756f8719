package sales

import (
	"time"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentQRIS PaymentMethod = "qris"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQRIS
}

// TaxRate is the fixed sales tax applied on top of the cart subtotal.
const TaxRate = 0.10

// Transaction is a completed sale. Items and Total are frozen at checkout
// and never recomputed.
type Transaction struct {
	ID            string            `json:"id"`
	Date          time.Time         `json:"date"`
	Items         []TransactionItem `json:"items"`
	Total         float64           `json:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
}

// TransactionItem is the persisted snapshot of one cart line. Name and price
// are denormalized so later product edits or deletes leave history intact;
// category and image are not stored.
type TransactionItem struct {
	TransactionID string  `json:"transaction_id"`
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

// AsProduct reconstructs a product view from a historical line item. Fields
// that were never persisted are backfilled with neutral defaults.
func (it TransactionItem) AsProduct() catalog.Product {
	return catalog.Product{
		ID:       it.ProductID,
		Name:     it.ProductName,
		Price:    it.Price,
		Category: catalog.CategoryUnknown,
		Image:    "",
		Stock:    0,
	}
}
