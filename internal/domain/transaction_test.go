package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestValidateShape(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		txType  TransactionType
		amount  string
		from    *uuid.UUID
		to      *uuid.UUID
		wantErr error
	}{
		{name: "income to wallet", txType: TransactionTypeIncome, amount: "100.00", to: &a},
		{name: "income missing wallet_to", txType: TransactionTypeIncome, amount: "100.00", wantErr: ErrInvalidTransactionShape},
		{name: "income with wallet_from", txType: TransactionTypeIncome, amount: "100.00", from: &a, to: &b, wantErr: ErrInvalidTransactionShape},
		{name: "expense from wallet", txType: TransactionTypeExpense, amount: "50.00", from: &a},
		{name: "expense missing wallet_from", txType: TransactionTypeExpense, amount: "50.00", wantErr: ErrInvalidTransactionShape},
		{name: "expense with wallet_to", txType: TransactionTypeExpense, amount: "50.00", from: &a, to: &b, wantErr: ErrInvalidTransactionShape},
		{name: "salary from wallet", txType: TransactionTypeSalary, amount: "250.00", from: &a},
		{name: "personal expense from wallet", txType: TransactionTypePersonalExpense, amount: "10.50", from: &a},
		{name: "transfer both wallets", txType: TransactionTypeTransfer, amount: "75.25", from: &a, to: &b},
		{name: "transfer missing dest", txType: TransactionTypeTransfer, amount: "75.25", from: &a, wantErr: ErrInvalidTransactionShape},
		{name: "transfer missing source", txType: TransactionTypeTransfer, amount: "75.25", to: &b, wantErr: ErrInvalidTransactionShape},
		{name: "transfer same wallet both sides", txType: TransactionTypeTransfer, amount: "75.25", from: &a, to: &a, wantErr: ErrInvalidTransactionShape},
		{name: "supplier payment both wallets", txType: TransactionTypeSupplierPayment, amount: "300.00", from: &a, to: &b},
		{name: "supplier payment one wallet", txType: TransactionTypeSupplierPayment, amount: "300.00", from: &a, wantErr: ErrInvalidTransactionShape},
		{name: "unknown type", txType: TransactionType("refund"), amount: "10.00", to: &a, wantErr: ErrInvalidTransactionShape},
		{name: "zero amount", txType: TransactionTypeIncome, amount: "0", to: &a, wantErr: ErrInvalidAmount},
		{name: "negative amount", txType: TransactionTypeIncome, amount: "-5.00", to: &a, wantErr: ErrInvalidAmount},
		{name: "sub-cent amount", txType: TransactionTypeIncome, amount: "1.005", to: &a, wantErr: ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			txn := &Transaction{
				ID:           uuid.New(),
				Type:         tc.txType,
				Amount:       money(t, tc.amount),
				WalletFromID: tc.from,
				WalletToID:   tc.to,
			}

			err := txn.ValidateShape()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDelta(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	transfer := &Transaction{
		Type:         TransactionTypeTransfer,
		Amount:       money(t, "40.00"),
		WalletFromID: &a,
		WalletToID:   &b,
	}

	assert.True(t, transfer.Delta(a).Equal(money(t, "-40.00")))
	assert.True(t, transfer.Delta(b).Equal(money(t, "40.00")))
	assert.True(t, transfer.Delta(uuid.New()).IsZero())
}

func TestTouchedWallets(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	income := &Transaction{Type: TransactionTypeIncome, WalletToID: &a}
	assert.Equal(t, []uuid.UUID{a}, income.TouchedWallets())

	transfer := &Transaction{Type: TransactionTypeTransfer, WalletFromID: &a, WalletToID: &b}
	assert.ElementsMatch(t, []uuid.UUID{a, b}, transfer.TouchedWallets())
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(money(t, "10")))
	assert.True(t, ValidAmount(money(t, "10.5")))
	assert.True(t, ValidAmount(money(t, "10.55")))
	assert.True(t, ValidAmount(money(t, "0.01")))
	assert.False(t, ValidAmount(money(t, "10.555")))
	assert.False(t, ValidAmount(money(t, "0.001")))
}
