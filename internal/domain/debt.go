package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DebtType string

const (
	DebtTypeSupplier DebtType = "supplier"
	DebtTypeEmployee DebtType = "employee"
	DebtTypeCustomer DebtType = "customer"
	DebtTypeOther    DebtType = "other"
)

func (t DebtType) IsValid() bool {
	switch t {
	case DebtTypeSupplier, DebtTypeEmployee, DebtTypeCustomer, DebtTypeOther:
		return true
	}
	return false
}

type DebtDirection string

const (
	DebtDirectionWeOwe    DebtDirection = "we_owe"
	DebtDirectionOwedToUs DebtDirection = "owed_to_us"
)

func (d DebtDirection) IsValid() bool {
	return d == DebtDirectionWeOwe || d == DebtDirectionOwedToUs
}

// Debt is an obligation to or from a counterparty, tracked separately from
// wallet balances: settling one is recorded as a payment here plus an
// ordinary transaction on whatever wallet the money moved through.
type Debt struct {
	ID               uuid.UUID
	DebtType         DebtType
	Direction        DebtDirection
	CounterpartyName string
	Amount           decimal.Decimal
	PaidAmount       decimal.Decimal
	DueDate          *time.Time
	IsClosed         bool
	Notes            string
	CreatedAt        time.Time
}

func (d *Debt) Remaining() decimal.Decimal {
	return d.Amount.Sub(d.PaidAmount)
}

// ApplyPayment registers a repayment. The payment must be positive, at most
// 2 decimal places, and no larger than what remains; paying the debt down to
// zero closes it.
func (d *Debt) ApplyPayment(payment decimal.Decimal) error {
	if d.IsClosed {
		return ErrDebtClosed
	}
	if !payment.IsPositive() || !ValidAmount(payment) {
		return ErrInvalidAmount
	}
	if payment.GreaterThan(d.Remaining()) {
		return ErrInvalidAmount
	}

	d.PaidAmount = d.PaidAmount.Add(payment)
	if d.Remaining().IsZero() {
		d.IsClosed = true
	}
	return nil
}
