package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/repository"
	"github.com/prostore/cashdesk/internal/service"
)

type stubTransactionService struct {
	txn *domain.Transaction

	gotRecord service.RecordRequest
	gotFilter repository.TransactionFilter
}

func (s *stubTransactionService) Record(_ context.Context, req service.RecordRequest) (*domain.Transaction, error) {
	s.gotRecord = req
	return s.txn, nil
}

func (s *stubTransactionService) GetByID(context.Context, uuid.UUID) (*domain.Transaction, error) {
	return s.txn, nil
}

func (s *stubTransactionService) List(_ context.Context, f repository.TransactionFilter) ([]domain.Transaction, int, error) {
	s.gotFilter = f
	return nil, 0, nil
}

func TestTransactionHandler_ListRejectsBadPagination(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"negative limit", "/api/v1/transactions?limit=-1"},
		{"negative offset", "/api/v1/transactions?offset=-5"},
		{"non-numeric limit", "/api/v1/transactions?limit=lots"},
		{"non-numeric offset", "/api/v1/transactions?offset=2.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTransactionHandler(&stubTransactionService{})

			r := authedRequest(http.MethodGet, tc.target, "")
			rec := httptest.NewRecorder()
			h.List(rec, r)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		})
	}
}

func TestTransactionHandler_ListPassesPagination(t *testing.T) {
	stub := &stubTransactionService{}
	h := NewTransactionHandler(stub)

	r := authedRequest(http.MethodGet, "/api/v1/transactions?limit=25&offset=50", "")
	rec := httptest.NewRecorder()
	h.List(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, stub.gotFilter.Limit)
	assert.Equal(t, 50, stub.gotFilter.Offset)
}

func TestTransactionHandler_RecordPassesSaleLinks(t *testing.T) {
	orderID := uuid.New()
	employeeID := uuid.New()
	saleID := uuid.New()
	walletID := uuid.New()

	stub := &stubTransactionService{txn: &domain.Transaction{
		ID:         uuid.New(),
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.RequireFromString("250.00"),
		WalletToID: &walletID,
		SaleID:     &saleID,
		OrderID:    &orderID,
		EmployeeID: &employeeID,
		CreatedAt:  time.Now().UTC(),
	}}
	h := NewTransactionHandler(stub)

	r := authedRequest(http.MethodPost, "/api/v1/transactions",
		`{"type":"income","amount":"250.00","wallet_to_id":"`+walletID.String()+
			`","sale_id":"`+saleID.String()+
			`","order_id":"`+orderID.String()+
			`","employee_id":"`+employeeID.String()+`"}`)
	rec := httptest.NewRecorder()
	h.Record(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.gotRecord.OrderID)
	require.NotNil(t, stub.gotRecord.EmployeeID)
	assert.Equal(t, orderID, *stub.gotRecord.OrderID)
	assert.Equal(t, employeeID, *stub.gotRecord.EmployeeID)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, orderID.String(), data["order_id"])
	assert.Equal(t, employeeID.String(), data["employee_id"])
}

func TestTransactionHandler_RecordRejectsBadSaleLinks(t *testing.T) {
	h := NewTransactionHandler(&stubTransactionService{})

	r := authedRequest(http.MethodPost, "/api/v1/transactions",
		`{"type":"income","amount":"10.00","wallet_to_id":"`+uuid.NewString()+`","order_id":"not-an-id"}`)
	rec := httptest.NewRecorder()
	h.Record(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}
