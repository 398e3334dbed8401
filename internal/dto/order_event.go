package dto

import "time"

const OrderEventStatusChanged = "order.status_changed"

// OrderEvent announces an order status change to downstream consumers.
type OrderEvent struct {
	OrderID    string    `json:"orderId"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}
