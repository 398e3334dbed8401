package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

type PaymentEventUseCase struct {
	gateway                     PaymentGateway
	orderRepo                   OrderRepository
	publisher                   OrderEventPublisher
	metrics                     Metrics
	cancelOnSubscriptionDeleted bool
	logger                      *zap.Logger
}

func NewPaymentEventUseCase(
	gateway PaymentGateway,
	orderRepo OrderRepository,
	publisher OrderEventPublisher,
	metrics Metrics,
	cancelOnSubscriptionDeleted bool,
	logger *zap.Logger,
) *PaymentEventUseCase {
	return &PaymentEventUseCase{
		gateway:                     gateway,
		orderRepo:                   orderRepo,
		publisher:                   publisher,
		metrics:                     metrics,
		cancelOnSubscriptionDeleted: cancelOnSubscriptionDeleted,
		logger:                      logger,
	}
}

// HandleEvent verifies and applies one gateway notification. It returns nil
// for every event that should be acknowledged, including ones that match no
// order, and an InternalError when the store failed so the gateway retries.
func (uc *PaymentEventUseCase) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := uc.gateway.ParseEvent(payload, signature)
	if err != nil {
		uc.metrics.PaymentEvent("unknown", "rejected")
		return err
	}

	logger := uc.logger.With(zap.String("eventId", event.ID), zap.String("eventType", string(event.Type)))

	switch event.Type {
	case dto.PaymentEventCheckoutCompleted:
		return uc.handleCheckoutCompleted(ctx, event, logger)
	case dto.PaymentEventSubscriptionDeleted:
		return uc.handleSubscriptionDeleted(ctx, event, logger)
	default:
		logger.Debug("ignoring payment event")
		uc.metrics.PaymentEvent(string(event.Type), "ignored")
		return nil
	}
}

func (uc *PaymentEventUseCase) handleCheckoutCompleted(ctx context.Context, event *dto.PaymentEvent, logger *zap.Logger) error {
	if event.OrderID == "" {
		logger.Warn("checkout completed without order reference", zap.String("sessionId", event.SessionID))
		uc.metrics.PaymentEvent(string(event.Type), "unmatched")
		return nil
	}
	logger = logger.With(zap.String("orderId", event.OrderID))

	matched, err := uc.orderRepo.MarkPaid(ctx, event.OrderID,
		optional(event.SessionID), optional(event.SubscriptionID), optional(event.CustomerEmail))
	if err != nil {
		uc.metrics.PaymentEvent(string(event.Type), "store_error")
		return apperrors.NewInternalError("failed to record payment", err)
	}
	if !matched {
		logger.Warn("no pending order matched completed checkout")
		uc.metrics.PaymentEvent(string(event.Type), "unmatched")
		return nil
	}

	logger.Info("order paid", zap.String("subscriptionId", event.SubscriptionID))
	uc.metrics.PaymentEvent(string(event.Type), "applied")
	uc.metrics.OrderTransition(string(domain.OrderStatusPaid))
	uc.publisher.PublishOrderEvent(ctx, dto.OrderEvent{
		OrderID:    event.OrderID,
		To:         string(domain.OrderStatusPaid),
		Reason:     string(event.Type),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (uc *PaymentEventUseCase) handleSubscriptionDeleted(ctx context.Context, event *dto.PaymentEvent, logger *zap.Logger) error {
	if event.SubscriptionID == "" {
		logger.Warn("subscription deleted without subscription id")
		uc.metrics.PaymentEvent(string(event.Type), "unmatched")
		return nil
	}
	logger = logger.With(zap.String("subscriptionId", event.SubscriptionID))

	target := domain.OrderStatusPending
	if uc.cancelOnSubscriptionDeleted {
		target = domain.OrderStatusCancelled
	}

	n, err := uc.orderRepo.UpdateStatusBySubscriptionRef(ctx, event.SubscriptionID, target)
	if err != nil {
		uc.metrics.PaymentEvent(string(event.Type), "store_error")
		return apperrors.NewInternalError("failed to record subscription cancellation", err)
	}
	if n == 0 {
		logger.Warn("no order matched deleted subscription")
		uc.metrics.PaymentEvent(string(event.Type), "unmatched")
		return nil
	}

	logger.Info("subscription ended", zap.Int64("orders", n), zap.String("status", string(target)))
	uc.metrics.PaymentEvent(string(event.Type), "applied")
	uc.metrics.OrderTransition(string(target))
	if event.OrderID != "" {
		uc.publisher.PublishOrderEvent(ctx, dto.OrderEvent{
			OrderID:    event.OrderID,
			To:         string(target),
			Reason:     string(event.Type),
			OccurredAt: time.Now().UTC(),
		})
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
