package usecase

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

const currencyUSD = "usd"

type CheckoutUseCase struct {
	catalog   Catalog
	orderRepo OrderRepository
	gateway   PaymentGateway
	publisher OrderEventPublisher
	metrics   Metrics
	baseURL   string
	logger    *zap.Logger
}

func NewCheckoutUseCase(
	catalog Catalog,
	orderRepo OrderRepository,
	gateway PaymentGateway,
	publisher OrderEventPublisher,
	metrics Metrics,
	baseURL string,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		catalog:   catalog,
		orderRepo: orderRepo,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// Checkout prices the requested configuration, records it as a pending order
// and opens a hosted subscription checkout for it. The order is stored before
// the session exists; if the gateway fails the order stays pending without a
// session reference.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	model, ok := uc.catalog.Lookup(req.Model)
	if !ok {
		uc.metrics.Checkout("rejected")
		return nil, apperrors.NewValidationErrorWithCode("INVALID_MODEL", "unknown phone model", apperrors.ValidationDetail{
			Field:   "model",
			Message: "model must be one of the catalog models",
		})
	}

	if req.Quantity < domain.MinOrderQuantity || req.Quantity > domain.MaxOrderQuantity {
		uc.metrics.Checkout("rejected")
		return nil, apperrors.NewValidationErrorWithCode("INVALID_QUANTITY", "quantity must be between 1 and 50", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be between 1 and 50",
		})
	}

	if len(req.Extensions) != req.Quantity {
		uc.metrics.Checkout("rejected")
		return nil, apperrors.NewValidationErrorWithCode("EXTENSION_COUNT_MISMATCH", "one extension is required per phone", apperrors.ValidationDetail{
			Field:   "extensions",
			Message: "extensions must contain exactly quantity entries",
		})
	}

	extensions, details := normalizeExtensions(req.Extensions)
	if len(details) > 0 {
		uc.metrics.Checkout("rejected")
		return nil, apperrors.NewValidationError("invalid extensions", details...)
	}

	order := &domain.Order{
		ID:           uuid.New().String(),
		Model:        model.ID,
		Quantity:     req.Quantity,
		Extensions:   extensions,
		PricePerUnit: model.PriceMonthly,
		TotalPrice:   model.PriceMonthly.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
		Status:       domain.OrderStatusPending,
	}
	logger := uc.logger.With(zap.String("orderId", order.ID))

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		uc.metrics.Checkout("store_error")
		return nil, err
	}
	logger.Info("order created", zap.String("model", order.Model), zap.Int("quantity", order.Quantity), zap.String("totalPrice", order.TotalPrice.StringFixed(2)))
	uc.publisher.PublishOrderEvent(ctx, dto.OrderEvent{
		OrderID:    order.ID,
		To:         string(domain.OrderStatusPending),
		Reason:     "checkout",
		OccurredAt: time.Now().UTC(),
	})

	session, err := uc.gateway.CreateCheckoutSession(ctx, dto.CheckoutSessionRequest{
		OrderID:    order.ID,
		Model:      model.ID,
		ModelName:  model.Name,
		Quantity:   order.Quantity,
		UnitPrice:  model.PriceMonthly,
		Currency:   currencyUSD,
		SuccessURL: uc.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  uc.baseURL + "/configure?model=" + url.QueryEscape(model.ID),
	})
	if err != nil {
		uc.metrics.Checkout("gateway_error")
		return nil, apperrors.NewInternalError("failed to create checkout session", err)
	}

	// Not fatal: payment events are correlated by order id.
	if err := uc.orderRepo.AttachSession(ctx, order.ID, session.ID); err != nil {
		logger.Error("failed to attach checkout session", zap.String("sessionId", session.ID), zap.Error(err))
	}

	uc.metrics.Checkout("created")
	logger.Info("checkout session opened", zap.String("sessionId", session.ID))

	return &dto.CheckoutResponse{URL: session.URL, OrderID: order.ID}, nil
}

// normalizeExtensions trims every unit's fields and requires a name and an
// extension number that fit the phone columns they are provisioned into.
// Extension numbers must be distinct within one order.
func normalizeExtensions(in []dto.ExtensionRequest) ([]domain.Extension, []apperrors.ValidationDetail) {
	var details []apperrors.ValidationDetail
	out := make([]domain.Extension, len(in))
	seen := make(map[string]bool, len(in))

	for i, e := range in {
		ext := domain.Extension{
			Name:      strings.TrimSpace(e.Name),
			Extension: strings.TrimSpace(e.Extension),
			Email:     strings.TrimSpace(e.Email),
		}
		field := "extensions[" + strconv.Itoa(i) + "]"

		switch {
		case ext.Name == "":
			details = append(details, apperrors.ValidationDetail{Field: field + ".name", Message: "name is required"})
		case utf8.RuneCountInString(ext.Name) > domain.MaxAssignedToLength:
			details = append(details, apperrors.ValidationDetail{Field: field + ".name", Message: "name must be at most 255 characters"})
		}
		switch {
		case ext.Extension == "":
			details = append(details, apperrors.ValidationDetail{Field: field + ".extension", Message: "extension is required"})
		case utf8.RuneCountInString(ext.Extension) > domain.MaxExtensionLength:
			details = append(details, apperrors.ValidationDetail{Field: field + ".extension", Message: "extension must be at most 32 characters"})
		case seen[ext.Extension]:
			details = append(details, apperrors.ValidationDetail{Field: field + ".extension", Message: "extension is listed more than once"})
		}
		seen[ext.Extension] = true

		out[i] = ext
	}
	return out, details
}
