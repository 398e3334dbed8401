package usecase

import (
	"context"
	"database/sql"

	"phonestore/internal/catalog"
	"phonestore/internal/domain"
	"phonestore/internal/dto"
)

type Catalog interface {
	Lookup(id string) (catalog.Model, bool)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	AttachSession(ctx context.Context, id string, sessionRef string) error
	MarkPaid(ctx context.Context, id string, sessionRef, subscriptionRef, customerEmail *string) (bool, error)
	UpdateStatusBySubscriptionRef(ctx context.Context, subscriptionRef string, status domain.OrderStatus) (int64, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error
}

type PhoneRepository interface {
	ListByOrder(ctx context.Context, orderID string) ([]domain.Phone, error)
	ListByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID string) ([]domain.Phone, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error)
	Update(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error
	CountByOrder(ctx context.Context, tx *sql.Tx, orderID string) (int, error)
	ActivateByOrder(ctx context.Context, tx *sql.Tx, orderID string) (int64, error)
}

type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req dto.CheckoutSessionRequest) (*dto.CheckoutSession, error)
	ParseEvent(payload []byte, signature string) (*dto.PaymentEvent, error)
}

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event dto.OrderEvent)
}

type Metrics interface {
	Checkout(result string)
	PaymentEvent(eventType, result string)
	OrderTransition(to string)
}
