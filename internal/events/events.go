package events

import (
	"encoding/json"
	"time"
)

const (
	EventCheckoutSubmitted = "CheckoutSubmitted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Price     int    `json:"price"`
}

type Customer struct {
	Nama        string `json:"nama"`
	NomorWa     string `json:"nomor_wa"`
	Alamat      string `json:"alamat"`
	DetailRumah string `json:"detail_rumah,omitempty"`
}

type CheckoutSubmittedPayload struct {
	OrderID   string      `json:"order_id"`
	SessionID string      `json:"session_id"`
	Items     []OrderItem `json:"items"`
	Total     int         `json:"total"`
	Customer  Customer    `json:"customer"`
}
