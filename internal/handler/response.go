package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prostore/cashdesk/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps every classified domain condition to its own code
// so the dialog can tell "no cash register selected", "shift already open"
// and "counted balance missing" apart.
func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrWalletNotFound):
		appErr = ErrWalletNotFound
	case errors.Is(err, domain.ErrShiftAlreadyOpen):
		appErr = ErrShiftAlreadyOpen
	case errors.Is(err, domain.ErrShiftNotOpen):
		appErr = ErrShiftNotOpen
	case errors.Is(err, domain.ErrNegativeBalance):
		appErr = ErrNegativeBalance
	case errors.Is(err, domain.ErrInvalidTransactionShape):
		appErr = ErrInvalidTxShape
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrWalletBusy):
		appErr = ErrWalletBusy
	case errors.Is(err, domain.ErrNoOpenShift):
		appErr = ErrNoOpenShift
	case errors.Is(err, domain.ErrDebtClosed):
		appErr = ErrDebtClosed
	case errors.Is(err, domain.ErrInvalidWalletType):
		appErr = ErrInvalidWalletType
	case errors.Is(err, domain.ErrVersionConflict):
		appErr = ErrConcurrentModified
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		appErr = ErrInvalidRequest
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
