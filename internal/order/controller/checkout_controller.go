package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"phonestore/internal/dto"
	"phonestore/internal/httpx"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type CheckoutController struct {
	useCase CheckoutUseCase
	logger  *zap.Logger
}

func NewCheckoutController(useCase CheckoutUseCase, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	var req dto.CheckoutRequest
	if !httpx.DecodeJSON(w, r, traceID, logger, &req) {
		return
	}
	logger = logger.With(zap.String("model", req.Model), zap.Int("quantity", req.Quantity))

	resp, err := c.useCase.Checkout(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp, logger)
}
