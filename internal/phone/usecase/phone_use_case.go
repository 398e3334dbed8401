package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/infrastructure/mysql"
)

type PhoneRepository interface {
	List(ctx context.Context) ([]domain.Phone, error)
	Insert(ctx context.Context, phone *domain.Phone) error
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error)
	Update(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error
	Delete(ctx context.Context, id string) error
}

type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type PhoneUseCase struct {
	repo             PhoneRepository
	txm              TransactionManager
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewPhoneUseCase(repo PhoneRepository, txm TransactionManager, logger *zap.Logger, maxRetryAttempts int) *PhoneUseCase {
	return &PhoneUseCase{
		repo:             repo,
		txm:              txm,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *PhoneUseCase) List(ctx context.Context) ([]domain.Phone, error) {
	return uc.repo.List(ctx)
}

func (uc *PhoneUseCase) Create(ctx context.Context, macAddress, model string) (*domain.Phone, error) {
	var details []apperrors.ValidationDetail

	mac, ok := domain.NormalizeMAC(macAddress)
	if !ok {
		details = append(details, apperrors.ValidationDetail{
			Field:   "mac_address",
			Message: "mac_address must look like AA:BB:CC:DD:EE:FF",
		})
	}
	model = strings.TrimSpace(model)
	switch {
	case model == "":
		details = append(details, apperrors.ValidationDetail{
			Field:   "model",
			Message: "model is required",
		})
	case utf8.RuneCountInString(model) > domain.MaxPhoneModelLength:
		details = append(details, tooLong("model", domain.MaxPhoneModelLength))
	}
	if len(details) > 0 {
		code := "INVALID_MAC"
		if ok {
			code = "VALIDATION_ERROR"
		}
		return nil, apperrors.NewValidationErrorWithCode(code, "invalid phone", details...)
	}

	phone := &domain.Phone{
		ID:         uuid.New().String(),
		MacAddress: mac,
		Model:      model,
		Status:     domain.PhoneStatusAvailable,
	}
	if err := uc.repo.Insert(ctx, phone); err != nil {
		return nil, err
	}

	uc.logger.Info("phone registered", zap.String("phoneId", phone.ID), zap.String("macAddress", mac))
	return phone, nil
}

// Update applies a partial update under a row lock. Moving a phone back to
// available unlinks it from its order and clears its assignee, unless the
// same request sets assigned_to or assigned_extension.
func (uc *PhoneUseCase) Update(ctx context.Context, id string, upd dto.PhoneUpdate) (*domain.Phone, error) {
	if upd.Status != nil && !domain.ValidPhoneStatus(*upd.Status) {
		return nil, apperrors.NewValidationErrorWithCode("INVALID_STATUS", "invalid phone status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of available, assigned, active",
		})
	}

	var details []apperrors.ValidationDetail
	if upd.AssignedTo != nil && utf8.RuneCountInString(strings.TrimSpace(*upd.AssignedTo)) > domain.MaxAssignedToLength {
		details = append(details, tooLong("assigned_to", domain.MaxAssignedToLength))
	}
	if upd.AssignedExtension != nil && utf8.RuneCountInString(strings.TrimSpace(*upd.AssignedExtension)) > domain.MaxExtensionLength {
		details = append(details, tooLong("assigned_extension", domain.MaxExtensionLength))
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid phone update", details...)
	}

	var updated *domain.Phone
	err := mysql.RetryOnDeadlock(ctx, uc.maxRetryAttempts, uc.logger.With(zap.String("phoneId", id)), func() error {
		return uc.txm.WithinTx(ctx, func(tx *sql.Tx) error {
			phone, err := uc.repo.FindByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}

			if upd.Status != nil && *upd.Status != phone.Status {
				if !domain.CanTransitionPhone(phone.Status, *upd.Status) {
					return apperrors.NewConflictError("INVALID_TRANSITION",
						"phone cannot move from "+string(phone.Status)+" to "+string(*upd.Status))
				}
				phone.Status = *upd.Status
				if phone.Status == domain.PhoneStatusAvailable {
					phone.OrderID = nil
					phone.AssignedTo = nil
					phone.AssignedExtension = nil
				}
			}
			if upd.AssignedTo != nil {
				phone.AssignedTo = emptyToNil(*upd.AssignedTo)
			}
			if upd.AssignedExtension != nil {
				phone.AssignedExtension = emptyToNil(*upd.AssignedExtension)
			}

			if err := uc.repo.Update(ctx, tx, phone); err != nil {
				return err
			}
			updated = phone
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("phone updated", zap.String("phoneId", id), zap.String("status", string(updated.Status)))
	return updated, nil
}

func (uc *PhoneUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("phone deleted", zap.String("phoneId", id))
	return nil
}

func tooLong(field string, max int) apperrors.ValidationDetail {
	return apperrors.ValidationDetail{
		Field:   field,
		Message: fmt.Sprintf("%s must be at most %d characters", field, max),
	}
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
