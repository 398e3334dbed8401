package controller

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/httpx"
)

type PhoneUseCase interface {
	List(ctx context.Context) ([]domain.Phone, error)
	Create(ctx context.Context, macAddress, model string) (*domain.Phone, error)
	Update(ctx context.Context, id string, upd dto.PhoneUpdate) (*domain.Phone, error)
	Delete(ctx context.Context, id string) error
}

type PhoneController struct {
	useCase PhoneUseCase
	logger  *zap.Logger
}

func NewPhoneController(useCase PhoneUseCase, logger *zap.Logger) *PhoneController {
	return &PhoneController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *PhoneController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	phones, err := c.useCase.List(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.NewPhoneResponses(phones), logger)
}

func (c *PhoneController) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	var req dto.CreatePhoneRequest
	if !httpx.DecodeJSON(w, r, traceID, logger, &req) {
		return
	}

	phone, err := c.useCase.Create(r.Context(), req.MacAddress, req.Model)
	if err != nil {
		httpx.WriteError(w, traceID, err, logger)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, dto.NewPhoneResponse(*phone), logger)
}

func (c *PhoneController) Update(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	var req dto.UpdatePhoneRequest
	if !httpx.DecodeJSON(w, r, traceID, logger, &req) {
		return
	}

	if strings.TrimSpace(req.ID) == "" {
		httpx.WriteValidationError(w, traceID, "phone id is required", logger, apperrors.ValidationDetail{
			Field:   "id",
			Message: "id is required",
		})
		return
	}

	upd := dto.PhoneUpdate{
		AssignedTo:        req.AssignedTo,
		AssignedExtension: req.AssignedExtension,
	}
	if req.Status != nil {
		status := domain.PhoneStatus(*req.Status)
		upd.Status = &status
	}

	phone, err := c.useCase.Update(r.Context(), req.ID, upd)
	if err != nil {
		httpx.WriteError(w, traceID, err, logger.With(zap.String("phoneId", req.ID)))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.NewPhoneResponse(*phone), logger)
}

func (c *PhoneController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := httpx.Trace(c.logger)

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		httpx.WriteValidationError(w, traceID, "phone id is required", logger, apperrors.ValidationDetail{
			Field:   "id",
			Message: "id query parameter is required",
		})
		return
	}

	if err := c.useCase.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, traceID, err, logger.With(zap.String("phoneId", id)))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Success: true}, logger)
}
