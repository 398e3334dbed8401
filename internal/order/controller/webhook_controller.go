package controller

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/httpx"
)

const (
	maxWebhookBytes = 64 << 10
	signatureHeader = "Stripe-Signature"
)

type PaymentEventUseCase interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type WebhookController struct {
	useCase PaymentEventUseCase
	logger  *zap.Logger
}

func NewWebhookController(useCase PaymentEventUseCase, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		useCase: useCase,
		logger:  logger,
	}
}

// HandlePaymentEvent needs the exact bytes the gateway signed, so the body
// is read raw and never decoded here.
func (c *WebhookController) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		logger.Warn("failed to read webhook body", zap.Error(err))
		httpx.WriteValidationError(w, traceID, "unreadable request body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "body must be at most 64 KiB",
		})
		return
	}

	if err := c.useCase.HandleEvent(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.WebhookAckResponse{Received: true}, logger)
}
