package dto

type PaymentEventType string

const (
	PaymentEventCheckoutCompleted   PaymentEventType = "checkout.session.completed"
	PaymentEventSubscriptionDeleted PaymentEventType = "customer.subscription.deleted"
)

// PaymentEvent is a verified gateway notification reduced to the fields the
// order lifecycle reacts to. Fields that the event type does not carry are
// left empty.
type PaymentEvent struct {
	ID             string
	Type           PaymentEventType
	OrderID        string
	SessionID      string
	SubscriptionID string
	CustomerEmail  string
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}
