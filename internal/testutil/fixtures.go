package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
)

type WalletOption func(*domain.Wallet)

func WithWalletType(t domain.WalletType) WalletOption {
	return func(w *domain.Wallet) { w.WalletType = t }
}

func WithAllowNegative() WalletOption {
	return func(w *domain.Wallet) { w.AllowNegative = true }
}

func WithInactive() WalletOption {
	return func(w *domain.Wallet) { w.IsActive = false }
}

func SeedWallet(t *testing.T, db *sql.DB, name string, balance decimal.Decimal, opts ...WalletOption) *domain.Wallet {
	t.Helper()

	w := &domain.Wallet{
		ID:         uuid.New(),
		Name:       name,
		WalletType: domain.WalletTypeCash,
		Balance:    balance,
		IsActive:   true,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(w)
	}

	_, err := db.Exec(
		`INSERT INTO wallets (id, name, wallet_type, balance, allow_negative, owner_id, is_active, notes, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.Name, w.WalletType, w.Balance, w.AllowNegative, w.OwnerID, w.IsActive, w.Notes, w.Version, w.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed wallet %s: %v", name, err)
	}
	return w
}

func SeedCategory(t *testing.T, db *sql.DB, name string, direction domain.CategoryDirection) *domain.TransactionCategory {
	t.Helper()

	c := &domain.TransactionCategory{
		ID:        uuid.New(),
		Name:      name,
		Direction: direction,
	}
	_, err := db.Exec(
		`INSERT INTO transaction_categories (id, name, direction, is_system)
		 VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Direction, c.IsSystem,
	)
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

func GetWalletBalance(t *testing.T, db *sql.DB, walletID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM wallets WHERE id = $1`, walletID).Scan(&balance)
	if err != nil {
		t.Fatalf("get wallet balance %s: %v", walletID, err)
	}
	return balance
}

func CountOpenShifts(t *testing.T, db *sql.DB, walletID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM cash_shifts WHERE wallet_id = $1 AND status = 'open'`, walletID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count open shifts for wallet %s: %v", walletID, err)
	}
	return count
}

func CountTransactions(t *testing.T, db *sql.DB, walletID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE wallet_from_id = $1 OR wallet_to_id = $1`, walletID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for wallet %s: %v", walletID, err)
	}
	return count
}

func Money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
