package logx

import (
	"encoding/json"
	"log"
	"time"
)

type Fields struct {
	Service       string `json:"service"`
	TransactionID string `json:"transaction_id,omitempty"`
	ProductID     string `json:"product_id,omitempty"`
	Step          string `json:"step,omitempty"`
	Status        string `json:"status,omitempty"`
	Message       string `json:"message,omitempty"`
}

func Log(fields Fields) {
	payload := map[string]any{
		"service":        fields.Service,
		"transaction_id": fields.TransactionID,
		"product_id":     fields.ProductID,
		"step":           fields.Step,
		"status":         fields.Status,
		"message":        fields.Message,
		"timestamp":      time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}
