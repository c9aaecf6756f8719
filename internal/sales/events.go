package sales

import (
	"encoding/json"
	"time"
)

const (
	EventProductChanged     = "ProductChanged"
	EventTransactionCreated = "TransactionCreated"
)

// Envelope wraps every change-feed event. Consumers refresh read-models from
// it; nothing in the checkout path depends on delivery.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type ProductChangedPayload struct {
	ProductID string `json:"product_id"`
	Change    string `json:"change"` // created | updated | deleted | stock
}

type TransactionCreatedPayload struct {
	TransactionID string  `json:"transaction_id"`
	Total         float64 `json:"total"`
	ItemCount     int     `json:"item_count"`
}
