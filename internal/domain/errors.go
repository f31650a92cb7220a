package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrWalletNotFound          = errors.New("wallet not found or inactive")
	ErrShiftAlreadyOpen        = errors.New("shift already open for this wallet")
	ErrShiftNotOpen            = errors.New("shift is not open")
	ErrNegativeBalance         = errors.New("negative balance not allowed for this wallet")
	ErrInvalidTransactionShape = errors.New("invalid transaction wallet combination")
	ErrInvalidAmount           = errors.New("amount is missing, not positive, or has too many decimal places")
	ErrWalletBusy              = errors.New("wallet is locked by another operation")
	ErrNoOpenShift             = errors.New("no open shift on this wallet")
	ErrDebtClosed              = errors.New("debt is already closed")
	ErrVersionConflict         = errors.New("optimistic lock conflict")
	ErrInvalidWalletType       = errors.New("invalid wallet type")
	ErrInvalidRequest          = errors.New("invalid request")
)
