package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/httpx"
)

type FulfillmentUseCase interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*dto.OrderDetail, error)
	AssignPhone(ctx context.Context, orderID, phoneID string, extensionIndex int) (*domain.Phone, error)
	AdvanceOrder(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error)
}

type OrderAdminController struct {
	useCase FulfillmentUseCase
	logger  *zap.Logger
}

func NewOrderAdminController(useCase FulfillmentUseCase, logger *zap.Logger) *OrderAdminController {
	return &OrderAdminController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderAdminController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	orders, err := c.useCase.ListOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.NewOrderResponses(orders), logger)
}

func (c *OrderAdminController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)
	id := chi.URLParam(r, "id")
	logger = logger.With(zap.String("orderId", id))

	detail, err := c.useCase.GetOrder(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OrderDetailResponse{
		Order:  dto.NewOrderResponse(detail.Order),
		Phones: dto.NewPhoneResponses(detail.Phones),
	}, logger)
}

func (c *OrderAdminController) AssignPhone(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)
	id := chi.URLParam(r, "id")
	logger = logger.With(zap.String("orderId", id))

	var req dto.AssignPhoneRequest
	if !httpx.DecodeJSON(w, r, traceID, logger, &req) {
		return
	}

	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.PhoneID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "phone_id",
			Message: "phone_id is required",
		})
	}
	if req.ExtensionIndex == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "extension_index",
			Message: "extension_index is required",
		})
	}
	if len(details) > 0 {
		httpx.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	phone, err := c.useCase.AssignPhone(r.Context(), id, req.PhoneID, *req.ExtensionIndex)
	if err != nil {
		httpx.WriteError(w, traceID, err, logger.With(zap.String("phoneId", req.PhoneID)))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.NewPhoneResponse(*phone), logger)
}

func (c *OrderAdminController) Advance(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)
	id := chi.URLParam(r, "id")
	logger = logger.With(zap.String("orderId", id))

	var req dto.AdvanceOrderRequest
	if !httpx.DecodeJSON(w, r, traceID, logger, &req) {
		return
	}

	order, err := c.useCase.AdvanceOrder(r.Context(), id, domain.OrderStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(*order), logger)
}
