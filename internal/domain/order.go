package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusPaid         OrderStatus = "paid"
	OrderStatusProvisioning OrderStatus = "provisioning"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusActive       OrderStatus = "active"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

const (
	MinOrderQuantity = 1
	MaxOrderQuantity = 50
)

// Extension is the per-unit configuration a customer enters in the wizard.
type Extension struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Email     string `json:"email"`
}

type Order struct {
	ID                     string
	Model                  string
	Quantity               int
	Extensions             []Extension
	PricePerUnit           decimal.Decimal
	TotalPrice             decimal.Decimal
	Status                 OrderStatus
	PaymentSessionRef      *string
	PaymentSubscriptionRef *string
	CustomerEmail          *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Fulfillment moves an order forward one step at a time. Payment-driven
// moves (pending <-> paid, cancellation) are not part of this table.
var orderFulfillmentNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPaid:         {OrderStatusProvisioning: true},
	OrderStatusProvisioning: {OrderStatusShipped: true},
	OrderStatusShipped:      {OrderStatusActive: true},
	OrderStatusActive:       {},
}

func CanAdvanceOrder(from, to OrderStatus) bool {
	return orderFulfillmentNext[from][to]
}

// AcceptsPhones reports whether phones may still be linked to the order.
func (o Order) AcceptsPhones() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusProvisioning
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProvisioning,
		OrderStatusShipped, OrderStatusActive, OrderStatusCancelled:
		return true
	}
	return false
}
