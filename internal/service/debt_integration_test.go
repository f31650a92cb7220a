package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/repository"
	"github.com/prostore/cashdesk/internal/service"
	"github.com/prostore/cashdesk/internal/testutil"
)

func TestDebt_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDebtService(repository.NewDebtRepository(db), db)
	ctx := context.Background()

	due := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	supplier, err := svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeSupplier,
		Direction:        domain.DebtDirectionWeOwe,
		CounterpartyName: "Fresh Produce Ltd",
		Amount:           testutil.Money("1200.00"),
		DueDate:          &due,
	})
	require.NoError(t, err)
	assert.True(t, supplier.PaidAmount.IsZero())
	assert.True(t, supplier.Remaining().Equal(testutil.Money("1200.00")))
	assert.False(t, supplier.IsClosed)
	require.NotNil(t, supplier.DueDate)

	_, err = svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeCustomer,
		Direction:        domain.DebtDirectionOwedToUs,
		CounterpartyName: "Walk-in customer",
		Amount:           testutil.Money("45.50"),
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, repository.DebtFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	weOwe := domain.DebtDirectionWeOwe
	owed, err := svc.List(ctx, repository.DebtFilter{Direction: &weOwe})
	require.NoError(t, err)
	require.Len(t, owed, 1)
	assert.Equal(t, supplier.ID, owed[0].ID)

	customer := domain.DebtTypeCustomer
	byType, err := svc.List(ctx, repository.DebtFilter{DebtType: &customer})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Walk-in customer", byType[0].CounterpartyName)
}

func TestDebt_CreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDebtService(repository.NewDebtRepository(db), db)
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtType("landlord"),
		Direction:        domain.DebtDirectionWeOwe,
		CounterpartyName: "Somebody",
		Amount:           testutil.Money("10.00"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeSupplier,
		Direction:        domain.DebtDirectionWeOwe,
		CounterpartyName: "Somebody",
		Amount:           testutil.Money("-10.00"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDebt_PartialThenFullRepayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDebtService(repository.NewDebtRepository(db), db)
	ctx := context.Background()

	debt, err := svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeEmployee,
		Direction:        domain.DebtDirectionWeOwe,
		CounterpartyName: "A. Cashier",
		Amount:           testutil.Money("300.00"),
	})
	require.NoError(t, err)

	partial, err := svc.Pay(ctx, debt.ID, testutil.Money("100.00"))
	require.NoError(t, err)
	assert.True(t, partial.PaidAmount.Equal(testutil.Money("100.00")))
	assert.True(t, partial.Remaining().Equal(testutil.Money("200.00")))
	assert.False(t, partial.IsClosed)

	settled, err := svc.Pay(ctx, debt.ID, testutil.Money("200.00"))
	require.NoError(t, err)
	assert.True(t, settled.Remaining().IsZero())
	assert.True(t, settled.IsClosed)

	// Settled debts take no further payments.
	_, err = svc.Pay(ctx, debt.ID, testutil.Money("1.00"))
	require.ErrorIs(t, err, domain.ErrDebtClosed)

	// And the stored record still reflects the settlement.
	stored, err := svc.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsClosed)
	assert.True(t, stored.PaidAmount.Equal(testutil.Money("300.00")))
}

func TestDebt_OverpaymentRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDebtService(repository.NewDebtRepository(db), db)
	ctx := context.Background()

	debt, err := svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeSupplier,
		Direction:        domain.DebtDirectionWeOwe,
		CounterpartyName: "Fresh Produce Ltd",
		Amount:           testutil.Money("50.00"),
	})
	require.NoError(t, err)

	_, err = svc.Pay(ctx, debt.ID, testutil.Money("60.00"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	unchanged, err := svc.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.PaidAmount.IsZero())
	assert.False(t, unchanged.IsClosed)
}

func TestDebt_PayUnknownDebt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDebtService(repository.NewDebtRepository(db), db)

	_, err := svc.Pay(context.Background(), uuid.New(), testutil.Money("10.00"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDebt_ClosedFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDebtService(repository.NewDebtRepository(db), db)
	ctx := context.Background()

	open, err := svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeOther,
		Direction:        domain.DebtDirectionOwedToUs,
		CounterpartyName: "Neighbour shop",
		Amount:           testutil.Money("80.00"),
	})
	require.NoError(t, err)

	settled, err := svc.Create(ctx, service.CreateDebtRequest{
		DebtType:         domain.DebtTypeOther,
		Direction:        domain.DebtDirectionOwedToUs,
		CounterpartyName: "Courier",
		Amount:           testutil.Money("20.00"),
	})
	require.NoError(t, err)
	_, err = svc.Pay(ctx, settled.ID, testutil.Money("20.00"))
	require.NoError(t, err)

	closed := true
	closedOnly, err := svc.List(ctx, repository.DebtFilter{IsClosed: &closed})
	require.NoError(t, err)
	require.Len(t, closedOnly, 1)
	assert.Equal(t, settled.ID, closedOnly[0].ID)

	notClosed := false
	openOnly, err := svc.List(ctx, repository.DebtFilter{IsClosed: &notClosed})
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)
}
