package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/repository"
)

// ShiftService drives the wallet shift lifecycle: none -> open -> closed.
// At most one open shift exists per wallet; the check runs under the wallet's
// guard section with the wallet row locked, and a partial unique index on
// open shifts backstops it.
type ShiftService struct {
	shifts  shiftRepository
	wallets walletRepository
	guard   walletGuard
	db      *sql.DB
}

func NewShiftService(shifts shiftRepository, wallets walletRepository, guard walletGuard, db *sql.DB) *ShiftService {
	return &ShiftService{shifts: shifts, wallets: wallets, guard: guard, db: db}
}

type OpenShiftRequest struct {
	WalletID       uuid.UUID
	TradingPointID uuid.UUID
	OpenedBy       uuid.UUID
}

// Open starts a shift on the wallet, snapshotting the current balance as
// balance_at_open.
func (s *ShiftService) Open(ctx context.Context, req OpenShiftRequest) (*domain.CashShift, error) {
	log := logging.FromContext(ctx)

	release, err := s.guard.Acquire(ctx, req.WalletID)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	defer release()

	var shift *domain.CashShift
	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		wallet, err := s.wallets.GetForUpdate(ctx, tx, req.WalletID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("Open: %w", domain.ErrWalletNotFound)
			}
			return fmt.Errorf("Open: %w", err)
		}
		if !wallet.IsActive {
			return fmt.Errorf("Open: %w", domain.ErrWalletNotFound)
		}

		_, err = s.shifts.GetOpenByWallet(ctx, tx, req.WalletID)
		if err == nil {
			return fmt.Errorf("Open: %w", domain.ErrShiftAlreadyOpen)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("Open: %w", err)
		}

		shift = &domain.CashShift{
			ID:             uuid.New(),
			WalletID:       req.WalletID,
			TradingPointID: req.TradingPointID,
			OpenedBy:       req.OpenedBy,
			Status:         domain.ShiftStatusOpen,
			OpenedAt:       time.Now().UTC(),
			BalanceAtOpen:  wallet.Balance,
		}

		return s.shifts.Create(ctx, tx, shift)
	})
	if err != nil {
		return nil, err
	}

	log.Info("cash shift opened",
		"shift_id", shift.ID,
		"wallet_id", shift.WalletID,
		"balance_at_open", shift.BalanceAtOpen,
	)

	return shift, nil
}

type CloseShiftRequest struct {
	ShiftID       uuid.UUID
	ActualBalance decimal.Decimal
	ClosedBy      uuid.UUID
	Notes         string
}

// Close reconciles and finalizes an open shift. The expected balance is the
// wallet's live balance read under the same lock that blocks every mutation
// until the shift row is written, so it reflects exactly the transactions
// that completed before the close took the wallet's section.
//
// A retried close on an already-closed shift with the same counted balance
// returns the stored record, so clients can safely retry ambiguous network
// failures; any other value fails with ErrShiftNotOpen.
func (s *ShiftService) Close(ctx context.Context, req CloseShiftRequest) (*domain.CashShift, error) {
	log := logging.FromContext(ctx)

	if req.ActualBalance.IsNegative() || !domain.ValidAmount(req.ActualBalance) {
		return nil, fmt.Errorf("Close: actual balance: %w", domain.ErrInvalidAmount)
	}

	// The shift is read outside any lock only to learn which wallet to
	// serialize on; all state checks repeat under the section.
	peek, err := s.shifts.GetByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Close: %w", domain.ErrShiftNotOpen)
		}
		return nil, fmt.Errorf("Close: %w", err)
	}

	release, err := s.guard.Acquire(ctx, peek.WalletID)
	if err != nil {
		return nil, fmt.Errorf("Close: %w", err)
	}
	defer release()

	var closed *domain.CashShift
	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		shift, err := s.shifts.GetForUpdate(ctx, tx, req.ShiftID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("Close: %w", domain.ErrShiftNotOpen)
			}
			return fmt.Errorf("Close: %w", err)
		}

		if shift.Status == domain.ShiftStatusClosed {
			if shift.ActualAtClose != nil && shift.ActualAtClose.Equal(req.ActualBalance) {
				closed = shift
				return nil
			}
			return fmt.Errorf("Close: %w", domain.ErrShiftNotOpen)
		}

		wallet, err := s.wallets.GetForUpdate(ctx, tx, shift.WalletID)
		if err != nil {
			return fmt.Errorf("Close: %w", err)
		}

		expected := wallet.Balance
		discrepancy := Discrepancy(req.ActualBalance, expected)
		now := time.Now().UTC()

		params := repository.CloseShiftParams{
			ClosedBy:    req.ClosedBy,
			ClosedAt:    now,
			Expected:    expected,
			Actual:      req.ActualBalance,
			Discrepancy: discrepancy,
			Notes:       req.Notes,
		}
		if err := s.shifts.Close(ctx, tx, shift.ID, params); err != nil {
			return fmt.Errorf("Close: %w", err)
		}

		shift.Status = domain.ShiftStatusClosed
		shift.ClosedBy = &req.ClosedBy
		shift.ClosedAt = &now
		shift.ExpectedAtClose = &expected
		shift.ActualAtClose = &req.ActualBalance
		shift.Discrepancy = &discrepancy
		shift.Notes = req.Notes
		closed = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	if closed.Discrepancy != nil && !closed.Discrepancy.IsZero() {
		log.Warn("cash shift closed with discrepancy",
			"shift_id", closed.ID,
			"wallet_id", closed.WalletID,
			"expected", closed.ExpectedAtClose,
			"actual", closed.ActualAtClose,
			"discrepancy", closed.Discrepancy,
		)
	} else {
		log.Info("cash shift closed",
			"shift_id", closed.ID,
			"wallet_id", closed.WalletID,
		)
	}

	return closed, nil
}

func (s *ShiftService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CashShift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return shift, nil
}

func (s *ShiftService) List(ctx context.Context, f repository.ShiftFilter) ([]domain.CashShift, error) {
	shifts, err := s.shifts.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return shifts, nil
}

func sortedWalletIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	return sorted
}
