package dto

import "github.com/shopspring/decimal"

type ExtensionRequest struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Email     string `json:"email"`
}

type CheckoutRequest struct {
	Model      string             `json:"model"`
	Quantity   int                `json:"quantity"`
	Extensions []ExtensionRequest `json:"extensions"`
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	OrderID string `json:"orderId"`
}

// CheckoutSessionRequest is what the payment gateway needs to open a hosted
// monthly subscription checkout for one order.
type CheckoutSessionRequest struct {
	OrderID    string
	Model      string
	ModelName  string
	Quantity   int
	UnitPrice  decimal.Decimal
	Currency   string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}
