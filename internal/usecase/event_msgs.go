package usecase

type OrderPlacedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Published to RabbitMQ (via the outbox) when an order is created.
type OrderPlacedMsg struct {
	OrderID       string            `json:"orderId"`
	SessionID     string            `json:"sessionId"`
	TxRef         string            `json:"txRef"`
	Total         int64             `json:"total"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"paymentMethod"`
	Items         []OrderPlacedItem `json:"items"`
}

// Consumed from the payment gateway's settlement feed on Kafka, and also
// carried by the HTTP webhook body.
type PaymentStatusChangedMsg struct {
	TxRef    string `json:"txRef"`
	OrderID  string `json:"orderId,omitempty"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"` // e.g. "SUCCESSFUL"
}
