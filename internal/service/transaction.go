package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/repository"
)

// TransactionService appends immutable financial movements and applies their
// effect to wallet balances. A transfer's two deltas commit together or not
// at all.
type TransactionService struct {
	transactions transactionRepository
	wallets      walletRepository
	shifts       shiftRepository
	ledger       *LedgerService
	guard        walletGuard
	db           *sql.DB

	// requireOpenShift rejects movements on cash-bearing wallets that have
	// no open shift, so every cash operation lands in some reconciliation
	// window.
	requireOpenShift bool
}

func NewTransactionService(
	transactions transactionRepository,
	wallets walletRepository,
	shifts shiftRepository,
	ledger *LedgerService,
	guard walletGuard,
	db *sql.DB,
	requireOpenShift bool,
) *TransactionService {
	return &TransactionService{
		transactions:     transactions,
		wallets:          wallets,
		shifts:           shifts,
		ledger:           ledger,
		guard:            guard,
		db:               db,
		requireOpenShift: requireOpenShift,
	}
}

type RecordRequest struct {
	Type         domain.TransactionType
	Amount       decimal.Decimal
	WalletFromID *uuid.UUID
	WalletToID   *uuid.UUID
	CategoryID   *uuid.UUID
	SaleID       *uuid.UUID
	OrderID      *uuid.UUID
	EmployeeID   *uuid.UUID
	Description  string
	CreatedBy    *uuid.UUID
}

// Record validates the movement, serializes on every wallet it touches and
// applies the deltas atomically. The server-assigned CreatedAt is what later
// attributes the movement to a shift window.
func (s *TransactionService) Record(ctx context.Context, req RecordRequest) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	txn := &domain.Transaction{
		ID:           uuid.New(),
		Type:         req.Type,
		CategoryID:   req.CategoryID,
		WalletFromID: req.WalletFromID,
		WalletToID:   req.WalletToID,
		Amount:       req.Amount,
		SaleID:       req.SaleID,
		OrderID:      req.OrderID,
		EmployeeID:   req.EmployeeID,
		Description:  req.Description,
		CreatedBy:    req.CreatedBy,
	}

	if err := txn.ValidateShape(); err != nil {
		return nil, fmt.Errorf("Record: %w", err)
	}

	touched := txn.TouchedWallets()

	release, err := s.guard.AcquireAll(ctx, touched...)
	if err != nil {
		return nil, fmt.Errorf("Record: %w", err)
	}
	defer release()

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		locked, err := s.lockWallets(ctx, tx, touched)
		if err != nil {
			return err
		}

		if s.requireOpenShift {
			if err := s.checkOpenShifts(ctx, tx, locked); err != nil {
				return err
			}
		}

		txn.CreatedAt = time.Now().UTC()

		if txn.WalletFromID != nil {
			if err := s.ledger.applyDelta(ctx, tx, locked[*txn.WalletFromID], txn.Amount.Neg()); err != nil {
				return err
			}
		}
		if txn.WalletToID != nil {
			if err := s.ledger.applyDelta(ctx, tx, locked[*txn.WalletToID], txn.Amount); err != nil {
				return err
			}
		}

		return s.transactions.Create(ctx, tx, txn)
	})
	if err != nil {
		return nil, fmt.Errorf("Record: %w", err)
	}

	log.Info("transaction recorded",
		"transaction_id", txn.ID,
		"type", txn.Type,
		"amount", txn.Amount,
	)

	return txn, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return txn, nil
}

func (s *TransactionService) List(ctx context.Context, f repository.TransactionFilter) ([]domain.Transaction, int, error) {
	txns, total, err := s.transactions.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return txns, total, nil
}

// lockWallets takes row locks in ascending UUID order, mirroring the guard's
// acquisition order, and verifies every wallet is active.
func (s *TransactionService) lockWallets(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) (map[uuid.UUID]*domain.Wallet, error) {
	locked := make(map[uuid.UUID]*domain.Wallet, len(ids))
	for _, id := range sortedWalletIDs(ids) {
		w, err := s.wallets.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("lockWallets: wallet %s: %w", id, domain.ErrWalletNotFound)
			}
			return nil, fmt.Errorf("lockWallets: %w", err)
		}
		if !w.IsActive {
			return nil, fmt.Errorf("lockWallets: wallet %s: %w", id, domain.ErrWalletNotFound)
		}
		locked[id] = w
	}
	return locked, nil
}

func (s *TransactionService) checkOpenShifts(ctx context.Context, tx *sql.Tx, locked map[uuid.UUID]*domain.Wallet) error {
	for id, w := range locked {
		if !w.WalletType.CashBearing() {
			continue
		}
		if _, err := s.shifts.GetOpenByWallet(ctx, tx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("checkOpenShifts: wallet %s: %w", id, domain.ErrNoOpenShift)
			}
			return fmt.Errorf("checkOpenShifts: %w", err)
		}
	}
	return nil
}
