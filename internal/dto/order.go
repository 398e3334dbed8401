package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"phonestore/internal/domain"
)

type AssignPhoneRequest struct {
	PhoneID        string `json:"phone_id"`
	ExtensionIndex *int   `json:"extension_index"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID                     string             `json:"id"`
	Model                  string             `json:"model"`
	Quantity               int                `json:"quantity"`
	Extensions             []domain.Extension `json:"extensions"`
	PricePerUnit           decimal.Decimal    `json:"price_per_unit"`
	TotalPrice             decimal.Decimal    `json:"total_price"`
	Status                 string             `json:"status"`
	PaymentSessionRef      *string            `json:"payment_session_ref"`
	PaymentSubscriptionRef *string            `json:"payment_subscription_ref"`
	CustomerEmail          *string            `json:"customer_email"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

type OrderDetailResponse struct {
	Order  OrderResponse   `json:"order"`
	Phones []PhoneResponse `json:"phones"`
}

// OrderDetail is an order together with the phones linked to it.
type OrderDetail struct {
	Order  domain.Order
	Phones []domain.Phone
}

func NewOrderResponse(o domain.Order) OrderResponse {
	extensions := o.Extensions
	if extensions == nil {
		extensions = []domain.Extension{}
	}
	return OrderResponse{
		ID:                     o.ID,
		Model:                  o.Model,
		Quantity:               o.Quantity,
		Extensions:             extensions,
		PricePerUnit:           o.PricePerUnit,
		TotalPrice:             o.TotalPrice,
		Status:                 string(o.Status),
		PaymentSessionRef:      o.PaymentSessionRef,
		PaymentSubscriptionRef: o.PaymentSubscriptionRef,
		CustomerEmail:          o.CustomerEmail,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
	}
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}
