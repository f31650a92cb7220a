package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidCredentials    = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect"}
	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key was already used with a different request"}

	ErrWalletNotFound     = &AppError{http.StatusUnprocessableEntity, "WALLET_NOT_FOUND", "Wallet not found or inactive"}
	ErrShiftAlreadyOpen   = &AppError{http.StatusConflict, "SHIFT_ALREADY_OPEN", "A shift is already open on this cash register"}
	ErrShiftNotOpen       = &AppError{http.StatusUnprocessableEntity, "SHIFT_NOT_OPEN", "Shift is already closed or does not exist"}
	ErrNegativeBalance    = &AppError{http.StatusUnprocessableEntity, "NEGATIVE_BALANCE_NOT_ALLOWED", "Operation would make the wallet balance negative"}
	ErrInvalidTxShape     = &AppError{http.StatusBadRequest, "INVALID_TRANSACTION_SHAPE", "Wallet combination does not match the transaction type"}
	ErrInvalidAmount      = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount is missing, not positive, or has more than 2 decimal places"}
	ErrWalletBusy         = &AppError{http.StatusConflict, "WALLET_BUSY", "Wallet is locked by another operation, retry shortly"}
	ErrNoOpenShift        = &AppError{http.StatusUnprocessableEntity, "NO_OPEN_SHIFT", "No open shift on this cash register"}
	ErrDebtClosed         = &AppError{http.StatusUnprocessableEntity, "DEBT_CLOSED", "Debt is already fully repaid"}
	ErrInvalidWalletType  = &AppError{http.StatusBadRequest, "INVALID_WALLET_TYPE", "Unknown wallet type"}
	ErrConcurrentModified = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
)
