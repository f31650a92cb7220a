package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome          TransactionType = "income"
	TransactionTypeExpense         TransactionType = "expense"
	TransactionTypeTransfer        TransactionType = "transfer"
	TransactionTypeSupplierPayment TransactionType = "supplier_payment"
	TransactionTypeSalary          TransactionType = "salary"
	TransactionTypePersonalExpense TransactionType = "personal_expense"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer,
		TransactionTypeSupplierPayment, TransactionTypeSalary, TransactionTypePersonalExpense:
		return true
	}
	return false
}

// DebitsSource reports whether the type takes money out of wallet_from.
func (t TransactionType) DebitsSource() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeSalary, TransactionTypePersonalExpense,
		TransactionTypeTransfer, TransactionTypeSupplierPayment:
		return true
	}
	return false
}

// CreditsDest reports whether the type puts money into wallet_to.
func (t TransactionType) CreditsDest() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeTransfer, TransactionTypeSupplierPayment:
		return true
	}
	return false
}

type CategoryDirection string

const (
	CategoryDirectionIncome  CategoryDirection = "income"
	CategoryDirectionExpense CategoryDirection = "expense"
)

type TransactionCategory struct {
	ID        uuid.UUID
	Name      string
	Direction CategoryDirection
	IsSystem  bool
}

// Transaction is an immutable financial movement. It belongs to a shift only
// implicitly, by CreatedAt falling inside the shift's open window on the
// wallet it touches.
type Transaction struct {
	ID           uuid.UUID
	Type         TransactionType
	CategoryID   *uuid.UUID
	WalletFromID *uuid.UUID
	WalletToID   *uuid.UUID
	Amount       decimal.Decimal
	SaleID       *uuid.UUID
	OrderID      *uuid.UUID
	// EmployeeID attributes salary and personal_expense movements to the
	// person they were paid to or spent by, as opposed to CreatedBy, the
	// operator who recorded them.
	EmployeeID  *uuid.UUID
	Description string
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
}

// ValidateShape enforces the wallet-side rules per transaction type:
// income credits wallet_to only; expense, salary and personal_expense debit
// wallet_from only; transfer and supplier_payment move between two distinct
// wallets.
func (tx *Transaction) ValidateShape() error {
	if !tx.Type.IsValid() {
		return ErrInvalidTransactionShape
	}
	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidAmount(tx.Amount) {
		return ErrInvalidAmount
	}

	hasFrom := tx.WalletFromID != nil
	hasTo := tx.WalletToID != nil

	switch tx.Type {
	case TransactionTypeTransfer, TransactionTypeSupplierPayment:
		if !hasFrom || !hasTo {
			return ErrInvalidTransactionShape
		}
		if *tx.WalletFromID == *tx.WalletToID {
			return ErrInvalidTransactionShape
		}
	case TransactionTypeIncome:
		if !hasTo || hasFrom {
			return ErrInvalidTransactionShape
		}
	case TransactionTypeExpense, TransactionTypeSalary, TransactionTypePersonalExpense:
		if !hasFrom || hasTo {
			return ErrInvalidTransactionShape
		}
	}
	return nil
}

// TouchedWallets returns the distinct wallets the transaction moves money
// through.
func (tx *Transaction) TouchedWallets() []uuid.UUID {
	var ids []uuid.UUID
	if tx.WalletFromID != nil {
		ids = append(ids, *tx.WalletFromID)
	}
	if tx.WalletToID != nil && (tx.WalletFromID == nil || *tx.WalletToID != *tx.WalletFromID) {
		ids = append(ids, *tx.WalletToID)
	}
	return ids
}

// Delta returns the signed effect of the transaction on the given wallet,
// or zero if the wallet is not touched.
func (tx *Transaction) Delta(walletID uuid.UUID) decimal.Decimal {
	d := decimal.Zero
	if tx.WalletFromID != nil && *tx.WalletFromID == walletID {
		d = d.Sub(tx.Amount)
	}
	if tx.WalletToID != nil && *tx.WalletToID == walletID {
		d = d.Add(tx.Amount)
	}
	return d
}
