package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
)

const debtColumns = `id, debt_type, direction, counterparty_name, amount, paid_amount,
	due_date, is_closed, notes, created_at`

type DebtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func (r *DebtRepository) Create(ctx context.Context, d *domain.Debt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (
			id, debt_type, direction, counterparty_name, amount, paid_amount,
			due_date, is_closed, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.DebtType, d.Direction, d.CounterpartyName, d.Amount, d.PaidAmount,
		d.DueDate, d.IsClosed, d.Notes, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *DebtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1`, id,
	)
	d, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return d, nil
}

func (r *DebtRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Debt, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1 FOR UPDATE`, id,
	)
	d, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return d, nil
}

func (r *DebtRepository) UpdatePayment(ctx context.Context, tx *sql.Tx, id uuid.UUID, paid decimal.Decimal, isClosed bool) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE debts SET paid_amount = $2, is_closed = $3 WHERE id = $1`,
		id, paid, isClosed,
	)
	if err != nil {
		return fmt.Errorf("UpdatePayment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdatePayment: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("UpdatePayment: %w", domain.ErrNotFound)
	}
	return nil
}

type DebtFilter struct {
	DebtType  *domain.DebtType
	Direction *domain.DebtDirection
	IsClosed  *bool
}

func (r *DebtRepository) List(ctx context.Context, f DebtFilter) ([]domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.DebtType != nil {
		query += ` AND debt_type = ` + arg(*f.DebtType)
	}
	if f.Direction != nil {
		query += ` AND direction = ` + arg(*f.Direction)
	}
	if f.IsClosed != nil {
		query += ` AND is_closed = ` + arg(*f.IsClosed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		debts = append(debts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return debts, nil
}

func scanDebt(s scanner) (*domain.Debt, error) {
	var d domain.Debt
	err := s.Scan(
		&d.ID, &d.DebtType, &d.Direction, &d.CounterpartyName, &d.Amount, &d.PaidAmount,
		&d.DueDate, &d.IsClosed, &d.Notes, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
