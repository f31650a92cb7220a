package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/repository"
)

type walletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context, walletType *domain.WalletType) ([]domain.Wallet, error)
	Summary(ctx context.Context) (decimal.Decimal, int, error)
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
}

type shiftRepository interface {
	Create(ctx context.Context, tx *sql.Tx, shift *domain.CashShift) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CashShift, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.CashShift, error)
	GetOpenByWallet(ctx context.Context, tx *sql.Tx, walletID uuid.UUID) (*domain.CashShift, error)
	Close(ctx context.Context, tx *sql.Tx, id uuid.UUID, p repository.CloseShiftParams) error
	List(ctx context.Context, f repository.ShiftFilter) ([]domain.CashShift, error)
}

type transactionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, f repository.TransactionFilter) ([]domain.Transaction, int, error)
	SumWalletDelta(ctx context.Context, walletID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type debtRepository interface {
	Create(ctx context.Context, d *domain.Debt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Debt, error)
	UpdatePayment(ctx context.Context, tx *sql.Tx, id uuid.UUID, paid decimal.Decimal, isClosed bool) error
	List(ctx context.Context, f repository.DebtFilter) ([]domain.Debt, error)
}

type walletGuard interface {
	Acquire(ctx context.Context, walletID uuid.UUID) (release func(), err error)
	AcquireAll(ctx context.Context, walletIDs ...uuid.UUID) (release func(), err error)
}
