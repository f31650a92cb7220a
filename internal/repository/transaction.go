package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
)

const transactionColumns = `id, transaction_type, category_id, wallet_from_id, wallet_to_id,
	amount, sale_id, order_id, employee_id, description, created_by, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, transaction_type, category_id, wallet_from_id, wallet_to_id,
			amount, sale_id, order_id, employee_id, description, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.Type, t.CategoryID, t.WalletFromID, t.WalletToID,
		t.Amount, t.SaleID, t.OrderID, t.EmployeeID, t.Description, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

type TransactionFilter struct {
	WalletID *uuid.UUID
	Type     *domain.TransactionType
	Limit    int
	Offset   int
}

func (r *TransactionRepository) List(ctx context.Context, f TransactionFilter) ([]domain.Transaction, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.WalletID != nil {
		p := arg(*f.WalletID)
		where += ` AND (wallet_from_id = ` + p + ` OR wallet_to_id = ` + p + `)`
	}
	if f.Type != nil {
		where += ` AND transaction_type = ` + arg(*f.Type)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return txns, total, nil
}

// SumWalletDelta aggregates the signed effect of all transactions touching
// the wallet with created_at in [from, to). This is the audit path that a
// reconciliation recompute checks against the live balance.
func (r *TransactionRepository) SumWalletDelta(ctx context.Context, walletID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(
			CASE WHEN wallet_to_id = $1 THEN amount ELSE 0 END -
			CASE WHEN wallet_from_id = $1 THEN amount ELSE 0 END
		), 0)
		FROM transactions
		WHERE (wallet_from_id = $1 OR wallet_to_id = $1)
		  AND created_at >= $2 AND created_at < $3`,
		walletID, from, to,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SumWalletDelta: %w", err)
	}
	return sum, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.Type, &t.CategoryID, &t.WalletFromID, &t.WalletToID,
		&t.Amount, &t.SaleID, &t.OrderID, &t.EmployeeID, &t.Description, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
