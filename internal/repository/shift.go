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

const shiftColumns = `id, wallet_id, trading_point_id, opened_by, closed_by, status,
	opened_at, closed_at, balance_at_open, expected_balance_at_close,
	actual_balance_at_close, discrepancy, notes`

type ShiftRepository struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, tx *sql.Tx, shift *domain.CashShift) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO cash_shifts (
			id, wallet_id, trading_point_id, opened_by, closed_by, status,
			opened_at, closed_at, balance_at_open, expected_balance_at_close,
			actual_balance_at_close, discrepancy, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		shift.ID, shift.WalletID, shift.TradingPointID, shift.OpenedBy, shift.ClosedBy,
		shift.Status, shift.OpenedAt, shift.ClosedAt, shift.BalanceAtOpen,
		shift.ExpectedAtClose, shift.ActualAtClose, shift.Discrepancy, shift.Notes,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CashShift, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts WHERE id = $1`, id,
	)
	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return s, nil
}

func (r *ShiftRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.CashShift, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts WHERE id = $1 FOR UPDATE`, id,
	)
	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return s, nil
}

// GetOpenByWallet returns the wallet's open shift inside tx with the row
// locked, or ErrNotFound when none is open.
func (r *ShiftRepository) GetOpenByWallet(ctx context.Context, tx *sql.Tx, walletID uuid.UUID) (*domain.CashShift, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts
		WHERE wallet_id = $1 AND status = $2 FOR UPDATE`,
		walletID, domain.ShiftStatusOpen,
	)
	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetOpenByWallet: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetOpenByWallet: %w", err)
	}
	return s, nil
}

type CloseShiftParams struct {
	ClosedBy    uuid.UUID
	ClosedAt    time.Time
	Expected    decimal.Decimal
	Actual      decimal.Decimal
	Discrepancy decimal.Decimal
	Notes       string
}

// Close finalizes an open shift. The WHERE status guard makes the update a
// no-op if the row was already closed, which surfaces as ErrShiftNotOpen.
func (r *ShiftRepository) Close(ctx context.Context, tx *sql.Tx, id uuid.UUID, p CloseShiftParams) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE cash_shifts SET
			status = $1, closed_by = $2, closed_at = $3,
			expected_balance_at_close = $4, actual_balance_at_close = $5,
			discrepancy = $6, notes = $7
		WHERE id = $8 AND status = $9`,
		domain.ShiftStatusClosed, p.ClosedBy, p.ClosedAt,
		p.Expected, p.Actual, p.Discrepancy, p.Notes,
		id, domain.ShiftStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Close: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Close: %w", domain.ErrShiftNotOpen)
	}
	return nil
}

type ShiftFilter struct {
	TradingPointID *uuid.UUID
	WalletID       *uuid.UUID
	From           *time.Time
	To             *time.Time
	Limit          int
}

func (r *ShiftRepository) List(ctx context.Context, f ShiftFilter) ([]domain.CashShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cash_shifts WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.TradingPointID != nil {
		query += ` AND trading_point_id = ` + arg(*f.TradingPointID)
	}
	if f.WalletID != nil {
		query += ` AND wallet_id = ` + arg(*f.WalletID)
	}
	if f.From != nil {
		query += ` AND opened_at >= ` + arg(*f.From)
	}
	if f.To != nil {
		query += ` AND opened_at < ` + arg(*f.To)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query += ` ORDER BY opened_at DESC LIMIT ` + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var shifts []domain.CashShift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		shifts = append(shifts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return shifts, nil
}

func scanShift(s scanner) (*domain.CashShift, error) {
	var sh domain.CashShift
	err := s.Scan(
		&sh.ID, &sh.WalletID, &sh.TradingPointID, &sh.OpenedBy, &sh.ClosedBy, &sh.Status,
		&sh.OpenedAt, &sh.ClosedAt, &sh.BalanceAtOpen, &sh.ExpectedAtClose,
		&sh.ActualAtClose, &sh.Discrepancy, &sh.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}
