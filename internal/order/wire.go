package order

import (
	"database/sql"

	"go.uber.org/zap"

	"phonestore/internal/config"
	"phonestore/internal/infrastructure/mysql"
	"phonestore/internal/order/controller"
	orderrepo "phonestore/internal/order/repository"
	"phonestore/internal/order/usecase"
	phonerepo "phonestore/internal/phone/repository"
)

// Module holds the HTTP entry points of the order lifecycle.
type Module struct {
	Checkout *controller.CheckoutController
	Webhook  *controller.WebhookController
	Admin    *controller.OrderAdminController
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	catalog usecase.Catalog,
	gateway usecase.PaymentGateway,
	publisher usecase.OrderEventPublisher,
	metrics usecase.Metrics,
	logger *zap.Logger,
) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	phoneRepo := phonerepo.NewMySQLPhoneRepository(db)
	txm := mysql.NewTransactionManager(db)

	checkoutUC := usecase.NewCheckoutUseCase(catalog, orderRepo, gateway, publisher, metrics, cfg.App.BaseURL, logger)
	paymentUC := usecase.NewPaymentEventUseCase(gateway, orderRepo, publisher, metrics, cfg.Order.CancelOnSubscriptionDeleted, logger)
	fulfillmentUC := usecase.NewFulfillmentUseCase(txm, orderRepo, phoneRepo, publisher, metrics, logger, cfg.Order.MaxRetryAttempts)

	return &Module{
		Checkout: controller.NewCheckoutController(checkoutUC, logger),
		Webhook:  controller.NewWebhookController(paymentUC, logger),
		Admin:    controller.NewOrderAdminController(fulfillmentUC, logger),
	}
}
