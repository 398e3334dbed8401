package usecase

import (
	"context"
	"database/sql"

	"phonestore/internal/catalog"
	"phonestore/internal/domain"
	"phonestore/internal/dto"
)

type mockCatalog struct {
	models map[string]catalog.Model
}

func (m *mockCatalog) Lookup(id string) (catalog.Model, bool) {
	model, ok := m.models[id]
	return model, ok
}

type mockOrderRepository struct {
	CreateFunc                        func(ctx context.Context, order *domain.Order) error
	AttachSessionFunc                 func(ctx context.Context, id string, sessionRef string) error
	MarkPaidFunc                      func(ctx context.Context, id string, sessionRef, subscriptionRef, customerEmail *string) (bool, error)
	UpdateStatusBySubscriptionRefFunc func(ctx context.Context, subscriptionRef string, status domain.OrderStatus) (int64, error)
	FindByIDFunc                      func(ctx context.Context, id string) (*domain.Order, error)
	FindByIDForUpdateFunc             func(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	ListFunc                          func(ctx context.Context) ([]domain.Order, error)
	UpdateStatusFunc                  func(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return m.CreateFunc(ctx, order)
}

func (m *mockOrderRepository) AttachSession(ctx context.Context, id string, sessionRef string) error {
	return m.AttachSessionFunc(ctx, id, sessionRef)
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, id string, sessionRef, subscriptionRef, customerEmail *string) (bool, error) {
	return m.MarkPaidFunc(ctx, id, sessionRef, subscriptionRef, customerEmail)
}

func (m *mockOrderRepository) UpdateStatusBySubscriptionRef(ctx context.Context, subscriptionRef string, status domain.OrderStatus) (int64, error) {
	return m.UpdateStatusBySubscriptionRefFunc(ctx, subscriptionRef, status)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return m.ListFunc(ctx)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error {
	return m.UpdateStatusFunc(ctx, tx, id, status)
}

type mockPhoneRepository struct {
	ListByOrderFunc          func(ctx context.Context, orderID string) ([]domain.Phone, error)
	ListByOrderForUpdateFunc func(ctx context.Context, tx *sql.Tx, orderID string) ([]domain.Phone, error)
	FindByIDForUpdateFunc    func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error)
	UpdateFunc               func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error
	CountByOrderFunc         func(ctx context.Context, tx *sql.Tx, orderID string) (int, error)
	ActivateByOrderFunc      func(ctx context.Context, tx *sql.Tx, orderID string) (int64, error)
}

func (m *mockPhoneRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Phone, error) {
	return m.ListByOrderFunc(ctx, orderID)
}

func (m *mockPhoneRepository) ListByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID string) ([]domain.Phone, error) {
	return m.ListByOrderForUpdateFunc(ctx, tx, orderID)
}

func (m *mockPhoneRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockPhoneRepository) Update(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error {
	return m.UpdateFunc(ctx, tx, phone)
}

func (m *mockPhoneRepository) CountByOrder(ctx context.Context, tx *sql.Tx, orderID string) (int, error) {
	return m.CountByOrderFunc(ctx, tx, orderID)
}

func (m *mockPhoneRepository) ActivateByOrder(ctx context.Context, tx *sql.Tx, orderID string) (int64, error) {
	return m.ActivateByOrderFunc(ctx, tx, orderID)
}

type mockTransactionManager struct {
	calls int
}

func (m *mockTransactionManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.calls++
	return fn(nil)
}

type mockPaymentGateway struct {
	CreateCheckoutSessionFunc func(ctx context.Context, req dto.CheckoutSessionRequest) (*dto.CheckoutSession, error)
	ParseEventFunc            func(payload []byte, signature string) (*dto.PaymentEvent, error)
}

func (m *mockPaymentGateway) CreateCheckoutSession(ctx context.Context, req dto.CheckoutSessionRequest) (*dto.CheckoutSession, error) {
	return m.CreateCheckoutSessionFunc(ctx, req)
}

func (m *mockPaymentGateway) ParseEvent(payload []byte, signature string) (*dto.PaymentEvent, error) {
	return m.ParseEventFunc(payload, signature)
}

type mockPublisher struct {
	events []dto.OrderEvent
}

func (m *mockPublisher) PublishOrderEvent(ctx context.Context, event dto.OrderEvent) {
	m.events = append(m.events, event)
}

type mockMetrics struct {
	checkouts     []string
	paymentEvents []string
	transitions   []string
}

func (m *mockMetrics) Checkout(result string) {
	m.checkouts = append(m.checkouts, result)
}

func (m *mockMetrics) PaymentEvent(eventType, result string) {
	m.paymentEvents = append(m.paymentEvents, eventType+":"+result)
}

func (m *mockMetrics) OrderTransition(to string) {
	m.transitions = append(m.transitions, to)
}
