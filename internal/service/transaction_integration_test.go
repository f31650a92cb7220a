package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/service"
	"github.com/prostore/cashdesk/internal/testutil"
)

func TestRecord_IncomeAndExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)
	ctx := context.Background()

	wallet := testutil.SeedWallet(t, db, "Main register", testutil.Money("100.00"))
	category := testutil.SeedCategory(t, db, "Retail revenue", domain.CategoryDirectionIncome)

	income, err := svc.transactions.Record(ctx, service.RecordRequest{
		Type:        domain.TransactionTypeIncome,
		Amount:      testutil.Money("49.90"),
		WalletToID:  &wallet.ID,
		CategoryID:  &category.ID,
		Description: "walk-in sale",
	})
	require.NoError(t, err)
	assert.False(t, income.CreatedAt.IsZero())
	assert.True(t, testutil.GetWalletBalance(t, db, wallet.ID).Equal(testutil.Money("149.90")))

	_, err = svc.transactions.Record(ctx, service.RecordRequest{
		Type:         domain.TransactionTypeExpense,
		Amount:       testutil.Money("19.90"),
		WalletFromID: &wallet.ID,
	})
	require.NoError(t, err)
	assert.True(t, testutil.GetWalletBalance(t, db, wallet.ID).Equal(testutil.Money("130.00")))
	assert.Equal(t, 2, testutil.CountTransactions(t, db, wallet.ID))
}

func TestRecord_TransferMovesBothSides(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)
	ctx := context.Background()

	register := testutil.SeedWallet(t, db, "Main register", testutil.Money("500.00"))
	bank := testutil.SeedWallet(t, db, "Operating account", testutil.Money("1000.00"),
		testutil.WithWalletType(domain.WalletTypeBankAccount))

	txn, err := svc.transactions.Record(ctx, service.RecordRequest{
		Type:         domain.TransactionTypeTransfer,
		Amount:       testutil.Money("200.00"),
		WalletFromID: &register.ID,
		WalletToID:   &bank.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeTransfer, txn.Type)

	assert.True(t, testutil.GetWalletBalance(t, db, register.ID).Equal(testutil.Money("300.00")))
	assert.True(t, testutil.GetWalletBalance(t, db, bank.ID).Equal(testutil.Money("1200.00")))
}

func TestRecord_TransferInsufficientFundsLeavesBothUntouched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)
	ctx := context.Background()

	register := testutil.SeedWallet(t, db, "Main register", testutil.Money("50.00"))
	bank := testutil.SeedWallet(t, db, "Operating account", testutil.Money("1000.00"),
		testutil.WithWalletType(domain.WalletTypeBankAccount))

	_, err := svc.transactions.Record(ctx, service.RecordRequest{
		Type:         domain.TransactionTypeTransfer,
		Amount:       testutil.Money("200.00"),
		WalletFromID: &register.ID,
		WalletToID:   &bank.ID,
	})
	require.ErrorIs(t, err, domain.ErrNegativeBalance)

	assert.True(t, testutil.GetWalletBalance(t, db, register.ID).Equal(testutil.Money("50.00")))
	assert.True(t, testutil.GetWalletBalance(t, db, bank.ID).Equal(testutil.Money("1000.00")))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, register.ID))
}

func TestRecord_AllowNegativeWallet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)
	ctx := context.Background()

	wallet := testutil.SeedWallet(t, db, "Owner card", testutil.Money("10.00"),
		testutil.WithWalletType(domain.WalletTypePersonalCard), testutil.WithAllowNegative())

	_, err := svc.transactions.Record(ctx, service.RecordRequest{
		Type:         domain.TransactionTypeExpense,
		Amount:       testutil.Money("25.00"),
		WalletFromID: &wallet.ID,
	})
	require.NoError(t, err)
	assert.True(t, testutil.GetWalletBalance(t, db, wallet.ID).Equal(testutil.Money("-15.00")))
}

func TestRecord_UnknownWallet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)

	missing := uuid.New()
	_, err := svc.transactions.Record(context.Background(), service.RecordRequest{
		Type:       domain.TransactionTypeIncome,
		Amount:     testutil.Money("10.00"),
		WalletToID: &missing,
	})
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestRecord_ShapeRejectedBeforeAnyMutation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)
	ctx := context.Background()

	wallet := testutil.SeedWallet(t, db, "Main register", testutil.Money("100.00"))

	_, err := svc.transactions.Record(ctx, service.RecordRequest{
		Type:         domain.TransactionTypeTransfer,
		Amount:       testutil.Money("10.00"),
		WalletFromID: &wallet.ID,
		WalletToID:   &wallet.ID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidTransactionShape)
	assert.True(t, testutil.GetWalletBalance(t, db, wallet.ID).Equal(testutil.Money("100.00")))
}

func TestRecord_RequireOpenShiftPolicy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, true)
	ctx := context.Background()

	register := testutil.SeedWallet(t, db, "Main register", testutil.Money("100.00"))
	bank := testutil.SeedWallet(t, db, "Operating account", testutil.Money("1000.00"),
		testutil.WithWalletType(domain.WalletTypeBankAccount))

	// Cash-bearing wallet with no open shift: rejected.
	_, err := svc.transactions.Record(ctx, service.RecordRequest{
		Type:       domain.TransactionTypeIncome,
		Amount:     testutil.Money("10.00"),
		WalletToID: &register.ID,
	})
	require.ErrorIs(t, err, domain.ErrNoOpenShift)
	assert.True(t, testutil.GetWalletBalance(t, db, register.ID).Equal(testutil.Money("100.00")))

	// Non-cash wallets are exempt from the policy.
	_, err = svc.transactions.Record(ctx, service.RecordRequest{
		Type:       domain.TransactionTypeIncome,
		Amount:     testutil.Money("10.00"),
		WalletToID: &bank.ID,
	})
	require.NoError(t, err)

	// With a shift open, cash movements go through.
	_, err = svc.shifts.Open(ctx, service.OpenShiftRequest{
		WalletID:       register.ID,
		TradingPointID: uuid.New(),
		OpenedBy:       uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.transactions.Record(ctx, service.RecordRequest{
		Type:       domain.TransactionTypeIncome,
		Amount:     testutil.Money("10.00"),
		WalletToID: &register.ID,
	})
	require.NoError(t, err)
	assert.True(t, testutil.GetWalletBalance(t, db, register.ID).Equal(testutil.Money("110.00")))
}

func TestLedger_GetBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupServices(t, db, false)
	ctx := context.Background()

	wallet := testutil.SeedWallet(t, db, "Main register", testutil.Money("77.50"))

	balance, err := svc.ledger.GetBalance(ctx, wallet.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(testutil.Money("77.50")))

	_, err = svc.ledger.GetBalance(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	inactive := testutil.SeedWallet(t, db, "Retired", testutil.Money("5.00"), testutil.WithInactive())
	_, err = svc.ledger.GetBalance(ctx, inactive.ID)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}
