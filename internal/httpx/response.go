package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

// Trace returns a fresh trace id and a logger that carries it.
func Trace(logger *zap.Logger) (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, logger.With(zap.String("traceId", traceID))
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// MaxBodyBytes caps JSON request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads a size-limited JSON body into v. On failure it writes a
// 400 VALIDATION_ERROR response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func WriteValidationError(w http.ResponseWriter, traceID string, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}, logger)
}

// WriteError maps a use case error onto its HTTP status. Unknown errors are
// logged and reported as 500 without leaking their text.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ie, ok := apperrors.IsInternalError(err); ok {
		logger.Error("upstream failure", zap.String("message", ie.Message), zap.Error(ie.Cause))
		writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", ie.Message, nil, logger)
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		logger.Warn("validation failed", zap.String("code", ve.Code), zap.String("message", ve.Message))
		writeError(w, traceID, http.StatusBadRequest, ve.Code, ve.Message, ve.Details, logger)
		return
	}

	if se, ok := apperrors.IsSignatureError(err); ok {
		logger.Warn("signature rejected", zap.Error(err))
		writeError(w, traceID, http.StatusBadRequest, "INVALID_SIGNATURE", se.Message, nil, logger)
		return
	}

	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", ue.Message, nil, logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil, logger)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		logger.Warn("conflict", zap.String("code", ce.Code), zap.String("message", ce.Message))
		writeError(w, traceID, http.StatusConflict, ce.Code, ce.Message, nil, logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

func writeError(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	WriteJSON(w, status, dto.ErrorResponse{
		TraceID: traceID,
		Error:   code,
		Message: message,
		Details: details,
	}, logger)
}
