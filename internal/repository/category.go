package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/prostore/cashdesk/internal/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransactionCategory, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, direction, is_system FROM transaction_categories WHERE id = $1`, id,
	)
	var c domain.TransactionCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Direction, &c.IsSystem); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, direction *domain.CategoryDirection) ([]domain.TransactionCategory, error) {
	query := `SELECT id, name, direction, is_system FROM transaction_categories`
	args := []any{}
	if direction != nil {
		query += ` WHERE direction = $1`
		args = append(args, *direction)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var categories []domain.TransactionCategory
	for rows.Next() {
		var c domain.TransactionCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Direction, &c.IsSystem); err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return categories, nil
}
