package controller

import (
	"context"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
)

type mockCheckoutUseCase struct {
	CheckoutFunc func(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

func (m *mockCheckoutUseCase) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	return m.CheckoutFunc(ctx, req)
}

type mockPaymentEventUseCase struct {
	HandleEventFunc func(ctx context.Context, payload []byte, signature string) error
}

func (m *mockPaymentEventUseCase) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	return m.HandleEventFunc(ctx, payload, signature)
}

type mockFulfillmentUseCase struct {
	ListOrdersFunc   func(ctx context.Context) ([]domain.Order, error)
	GetOrderFunc     func(ctx context.Context, id string) (*dto.OrderDetail, error)
	AssignPhoneFunc  func(ctx context.Context, orderID, phoneID string, extensionIndex int) (*domain.Phone, error)
	AdvanceOrderFunc func(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error)
}

func (m *mockFulfillmentUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return m.ListOrdersFunc(ctx)
}

func (m *mockFulfillmentUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderDetail, error) {
	return m.GetOrderFunc(ctx, id)
}

func (m *mockFulfillmentUseCase) AssignPhone(ctx context.Context, orderID, phoneID string, extensionIndex int) (*domain.Phone, error) {
	return m.AssignPhoneFunc(ctx, orderID, phoneID, extensionIndex)
}

func (m *mockFulfillmentUseCase) AdvanceOrder(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error) {
	return m.AdvanceOrderFunc(ctx, orderID, target)
}
