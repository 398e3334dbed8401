package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/infrastructure/mysql"
)

type FulfillmentUseCase struct {
	txm              TransactionManager
	orderRepo        OrderRepository
	phoneRepo        PhoneRepository
	publisher        OrderEventPublisher
	metrics          Metrics
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewFulfillmentUseCase(
	txm TransactionManager,
	orderRepo OrderRepository,
	phoneRepo PhoneRepository,
	publisher OrderEventPublisher,
	metrics Metrics,
	logger *zap.Logger,
	maxRetryAttempts int,
) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		txm:              txm,
		orderRepo:        orderRepo,
		phoneRepo:        phoneRepo,
		publisher:        publisher,
		metrics:          metrics,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *FulfillmentUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.orderRepo.List(ctx)
}

func (uc *FulfillmentUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderDetail, error) {
	order, err := uc.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	phones, err := uc.phoneRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.OrderDetail{Order: *order, Phones: phones}, nil
}

// AssignPhone links an available phone to a paid order and configures it
// with the extension at extensionIndex. The first assignment moves the order
// into provisioning. Each extension is provisioned on at most one phone. The
// order, its linked phones and the new phone are locked in that order.
func (uc *FulfillmentUseCase) AssignPhone(ctx context.Context, orderID, phoneID string, extensionIndex int) (*domain.Phone, error) {
	logger := uc.logger.With(zap.String("orderId", orderID), zap.String("phoneId", phoneID))

	var (
		assigned *domain.Phone
		from     domain.OrderStatus
	)
	err := mysql.RetryOnDeadlock(ctx, uc.maxRetryAttempts, logger, func() error {
		return uc.txm.WithinTx(ctx, func(tx *sql.Tx) error {
			order, err := uc.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if !order.AcceptsPhones() {
				return apperrors.NewConflictError("ORDER_NOT_ASSIGNABLE",
					fmt.Sprintf("phones cannot be assigned to a %s order", order.Status))
			}
			if extensionIndex < 0 || extensionIndex >= len(order.Extensions) {
				return apperrors.NewValidationErrorWithCode("INVALID_EXTENSION_INDEX", "extension index out of range", apperrors.ValidationDetail{
					Field:   "extension_index",
					Message: fmt.Sprintf("extension_index must be between 0 and %d", len(order.Extensions)-1),
				})
			}

			ext := order.Extensions[extensionIndex]
			linked, err := uc.phoneRepo.ListByOrderForUpdate(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if len(linked) >= order.Quantity {
				return apperrors.NewConflictError("ORDER_FULLY_ASSIGNED", "every phone of this order is already assigned")
			}
			for _, p := range linked {
				if p.AssignedExtension != nil && *p.AssignedExtension == ext.Extension {
					return apperrors.NewConflictError("EXTENSION_ALREADY_ASSIGNED",
						fmt.Sprintf("extension %s is already provisioned on phone %s", ext.Extension, p.ID))
				}
			}

			phone, err := uc.phoneRepo.FindByIDForUpdate(ctx, tx, phoneID)
			if err != nil {
				return err
			}
			if phone.Status != domain.PhoneStatusAvailable {
				return apperrors.NewConflictError("PHONE_NOT_AVAILABLE",
					fmt.Sprintf("phone is %s", phone.Status))
			}

			phone.OrderID = &order.ID
			phone.AssignedTo = &ext.Name
			phone.AssignedExtension = &ext.Extension
			phone.Status = domain.PhoneStatusAssigned
			if err := uc.phoneRepo.Update(ctx, tx, phone); err != nil {
				return err
			}

			from = order.Status
			if order.Status == domain.OrderStatusPaid {
				if err := uc.orderRepo.UpdateStatus(ctx, tx, orderID, domain.OrderStatusProvisioning); err != nil {
					return err
				}
			}

			assigned = phone
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("phone assigned", zap.String("extension", *assigned.AssignedExtension))
	if from == domain.OrderStatusPaid {
		uc.recordTransition(ctx, orderID, from, domain.OrderStatusProvisioning, "phone_assigned")
	}
	return assigned, nil
}

// AdvanceOrder moves a provisioning order to shipped, or a shipped order to
// active. Shipping requires every phone to be assigned; activation also
// activates the linked phones.
func (uc *FulfillmentUseCase) AdvanceOrder(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(target) {
		return nil, apperrors.NewValidationErrorWithCode("INVALID_STATUS", "invalid order status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be shipped or active",
		})
	}
	logger := uc.logger.With(zap.String("orderId", orderID), zap.String("target", string(target)))

	var (
		advanced *domain.Order
		from     domain.OrderStatus
	)
	err := mysql.RetryOnDeadlock(ctx, uc.maxRetryAttempts, logger, func() error {
		return uc.txm.WithinTx(ctx, func(tx *sql.Tx) error {
			order, err := uc.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if target == domain.OrderStatusProvisioning || !domain.CanAdvanceOrder(order.Status, target) {
				return apperrors.NewConflictError("INVALID_TRANSITION",
					fmt.Sprintf("order cannot move from %s to %s", order.Status, target))
			}

			switch target {
			case domain.OrderStatusShipped:
				linked, err := uc.phoneRepo.CountByOrder(ctx, tx, orderID)
				if err != nil {
					return err
				}
				if linked < order.Quantity {
					return apperrors.NewConflictError("INCOMPLETE_ASSIGNMENT",
						fmt.Sprintf("%d of %d phones assigned", linked, order.Quantity))
				}
			case domain.OrderStatusActive:
				if _, err := uc.phoneRepo.ActivateByOrder(ctx, tx, orderID); err != nil {
					return err
				}
			}

			if err := uc.orderRepo.UpdateStatus(ctx, tx, orderID, target); err != nil {
				return err
			}

			from = order.Status
			order.Status = target
			advanced = order
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order advanced", zap.String("from", string(from)))
	uc.recordTransition(ctx, orderID, from, target, "fulfillment")
	return advanced, nil
}

func (uc *FulfillmentUseCase) recordTransition(ctx context.Context, orderID string, from, to domain.OrderStatus, reason string) {
	uc.metrics.OrderTransition(string(to))
	uc.publisher.PublishOrderEvent(ctx, dto.OrderEvent{
		OrderID:    orderID,
		From:       string(from),
		To:         string(to),
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
}
