package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
)

// ReconcileService recomputes a shift's expected balance from the transaction
// log. Shift close reads the live wallet balance under lock; this slower path
// must agree with it and exists for audits and debugging drift suspicions.
type ReconcileService struct {
	shifts       shiftRepository
	transactions transactionRepository
	wallets      walletRepository
}

func NewReconcileService(shifts shiftRepository, transactions transactionRepository, wallets walletRepository) *ReconcileService {
	return &ReconcileService{shifts: shifts, transactions: transactions, wallets: wallets}
}

type ReconciliationReport struct {
	ShiftID       uuid.UUID
	WalletID      uuid.UUID
	WindowFrom    time.Time
	WindowTo      time.Time
	BalanceAtOpen decimal.Decimal
	WindowDelta   decimal.Decimal
	Recomputed    decimal.Decimal
	LedgerBalance decimal.Decimal
	Matches       bool
}

// Recompute sums the signed deltas of all transactions on the shift's wallet
// inside [opened_at, closed_at) — or up to now for a still-open shift — and
// compares balance_at_open plus that sum against the reference balance:
// expected_balance_at_close for closed shifts, the live wallet balance for
// open ones.
func (s *ReconcileService) Recompute(ctx context.Context, shiftID uuid.UUID) (*ReconciliationReport, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Recompute: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Recompute: %w", err)
	}

	windowTo := time.Now().UTC()
	if shift.ClosedAt != nil {
		windowTo = *shift.ClosedAt
	}

	delta, err := s.transactions.SumWalletDelta(ctx, shift.WalletID, shift.OpenedAt, windowTo)
	if err != nil {
		return nil, fmt.Errorf("Recompute: %w", err)
	}

	var reference decimal.Decimal
	if shift.Status == domain.ShiftStatusClosed && shift.ExpectedAtClose != nil {
		reference = *shift.ExpectedAtClose
	} else {
		wallet, err := s.wallets.GetByID(ctx, shift.WalletID)
		if err != nil {
			return nil, fmt.Errorf("Recompute: %w", err)
		}
		reference = wallet.Balance
	}

	recomputed := shift.BalanceAtOpen.Add(delta)

	return &ReconciliationReport{
		ShiftID:       shift.ID,
		WalletID:      shift.WalletID,
		WindowFrom:    shift.OpenedAt,
		WindowTo:      windowTo,
		BalanceAtOpen: shift.BalanceAtOpen,
		WindowDelta:   delta,
		Recomputed:    recomputed,
		LedgerBalance: reference,
		Matches:       recomputed.Equal(reference),
	}, nil
}

// Discrepancy is actual minus expected: positive is surplus, negative is
// shortage. Closing a shift never corrects the wallet balance toward the
// counted value; an operator records an explicit adjustment transaction for
// that.
func Discrepancy(actual, expected decimal.Decimal) decimal.Decimal {
	return actual.Sub(expected)
}
