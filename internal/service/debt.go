package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/repository"
)

// DebtService tracks obligations to and from counterparties. Debts are
/// bookkeeping records only: repaying one does not move wallet money by
// itself, the operator records the matching transaction separately.
type DebtService struct {
	debts debtRepository
	db    *sql.DB
}

func NewDebtService(debts debtRepository, db *sql.DB) *DebtService {
	return &DebtService{debts: debts, db: db}
}

type CreateDebtRequest struct {
	DebtType         domain.DebtType
	Direction        domain.DebtDirection
	CounterpartyName string
	Amount           decimal.Decimal
	DueDate          *time.Time
	Notes            string
}

func (s *DebtService) Create(ctx context.Context, req CreateDebtRequest) (*domain.Debt, error) {
	if !req.DebtType.IsValid() || !req.Direction.IsValid() || req.CounterpartyName == "" {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidRequest)
	}
	if !req.Amount.IsPositive() || !domain.ValidAmount(req.Amount) {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}

	debt := &domain.Debt{
		ID:               uuid.New(),
		DebtType:         req.DebtType,
		Direction:        req.Direction,
		CounterpartyName: req.CounterpartyName,
		Amount:           req.Amount,
		PaidAmount:       decimal.Zero,
		DueDate:          req.DueDate,
		Notes:            req.Notes,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.debts.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	logging.FromContext(ctx).Info("debt recorded",
		"debt_id", debt.ID,
		"debt_type", debt.DebtType,
		"direction", debt.Direction,
		"amount", debt.Amount,
	)

	return debt, nil
}

func (s *DebtService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	debt, err := s.debts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return debt, nil
}

func (s *DebtService) List(ctx context.Context, f repository.DebtFilter) ([]domain.Debt, error) {
	debts, err := s.debts.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return debts, nil
}

// Pay registers a repayment against the debt under a row lock; reaching zero
// remaining closes it.
func (s *DebtService) Pay(ctx context.Context, debtID uuid.UUID, payment decimal.Decimal) (*domain.Debt, error) {
	var debt *domain.Debt
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		d, err := s.debts.GetForUpdate(ctx, tx, debtID)
		if err != nil {
			return fmt.Errorf("Pay: %w", err)
		}

		if err := d.ApplyPayment(payment); err != nil {
			return fmt.Errorf("Pay: %w", err)
		}

		if err := s.debts.UpdatePayment(ctx, tx, d.ID, d.PaidAmount, d.IsClosed); err != nil {
			return fmt.Errorf("Pay: %w", err)
		}
		debt = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("debt payment recorded",
		"debt_id", debt.ID,
		"payment", payment,
		"remaining", debt.Remaining(),
		"closed", debt.IsClosed,
	)

	return debt, nil
}
