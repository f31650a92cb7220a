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
)

// LedgerService owns wallet balances. Every balance mutation in the system
// goes through applyDelta, inside a transaction with the wallet row locked.
type LedgerService struct {
	wallets walletRepository
}

func NewLedgerService(wallets walletRepository) *LedgerService {
	return &LedgerService{wallets: wallets}
}

// GetBalance returns the wallet's current balance. Inactive wallets are
// treated the same as missing ones.
func (s *LedgerService) GetBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	w, err := s.activeWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("GetBalance: %w", err)
	}
	return w.Balance, nil
}

func (s *LedgerService) ListWallets(ctx context.Context, walletType *domain.WalletType) ([]domain.Wallet, error) {
	if walletType != nil && !walletType.IsValid() {
		return nil, fmt.Errorf("ListWallets: %w", domain.ErrInvalidWalletType)
	}
	wallets, err := s.wallets.List(ctx, walletType)
	if err != nil {
		return nil, fmt.Errorf("ListWallets: %w", err)
	}
	return wallets, nil
}

type WalletSummary struct {
	TotalBalance decimal.Decimal
	WalletsCount int
}

func (s *LedgerService) Summary(ctx context.Context) (*WalletSummary, error) {
	total, count, err := s.wallets.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}
	return &WalletSummary{TotalBalance: total, WalletsCount: count}, nil
}

type CreateWalletRequest struct {
	Name          string
	WalletType    domain.WalletType
	AllowNegative bool
	OwnerID       *uuid.UUID
	Notes         string
}

func (s *LedgerService) CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error) {
	log := logging.FromContext(ctx)

	if req.Name == "" {
		return nil, fmt.Errorf("CreateWallet: name: %w", domain.ErrInvalidRequest)
	}
	if !req.WalletType.IsValid() {
		return nil, fmt.Errorf("CreateWallet: %w", domain.ErrInvalidWalletType)
	}

	wallet := &domain.Wallet{
		ID:            uuid.New(),
		Name:          req.Name,
		WalletType:    req.WalletType,
		Balance:       decimal.Zero,
		AllowNegative: req.AllowNegative,
		OwnerID:       req.OwnerID,
		IsActive:      true,
		Notes:         req.Notes,
		Version:       1,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("CreateWallet: %w", err)
	}

	log.Info("wallet created",
		"wallet_id", wallet.ID,
		"wallet_type", wallet.WalletType,
	)

	return wallet, nil
}

func (s *LedgerService) activeWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	if !w.IsActive {
		return nil, domain.ErrWalletNotFound
	}
	return w, nil
}

// applyDelta adds a signed amount to a locked wallet row and persists the
// result. The caller holds the wallet's guard section and the row lock via
// GetForUpdate; locked is mutated in place so subsequent deltas in the same
// transaction see the new balance.
func (s *LedgerService) applyDelta(ctx context.Context, tx *sql.Tx, locked *domain.Wallet, delta decimal.Decimal) error {
	newBalance := locked.Balance.Add(delta)
	if newBalance.IsNegative() && !locked.AllowNegative {
		return fmt.Errorf("applyDelta: wallet %s: %w", locked.ID, domain.ErrNegativeBalance)
	}

	if err := s.wallets.UpdateBalance(ctx, tx, locked.ID, newBalance, locked.Version+1); err != nil {
		return fmt.Errorf("applyDelta: %w", err)
	}

	locked.Balance = newBalance
	locked.Version++
	return nil
}
