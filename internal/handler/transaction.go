package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/auth"
	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/repository"
	"github.com/prostore/cashdesk/internal/service"
)

type transactionService interface {
	Record(ctx context.Context, req service.RecordRequest) (*domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, f repository.TransactionFilter) ([]domain.Transaction, int, error)
}

type TransactionHandler struct {
	transactions transactionService
}

func NewTransactionHandler(transactions transactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type recordTransactionRequest struct {
	Type         string  `json:"type"`
	Amount       string  `json:"amount"`
	WalletFromID *string `json:"wallet_from_id"`
	WalletToID   *string `json:"wallet_to_id"`
	CategoryID   *string `json:"category_id"`
	SaleID       *string `json:"sale_id"`
	OrderID      *string `json:"order_id"`
	EmployeeID   *string `json:"employee_id"`
	Description  string  `json:"description"`
}

func (r recordTransactionRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.TransactionType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "unknown transaction type"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	} else if _, err := decimal.NewFromString(r.Amount); err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal number"})
	}
	return errs
}

type transactionDTO struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	TypeLabel    string          `json:"type_label"`
	Amount       decimal.Decimal `json:"amount"`
	WalletFromID *uuid.UUID      `json:"wallet_from_id,omitempty"`
	WalletToID   *uuid.UUID      `json:"wallet_to_id,omitempty"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	SaleID       *uuid.UUID      `json:"sale_id,omitempty"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	EmployeeID   *uuid.UUID      `json:"employee_id,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:           t.ID,
		Type:         string(t.Type),
		TypeLabel:    transactionTypeLabel(t.Type),
		Amount:       t.Amount,
		WalletFromID: t.WalletFromID,
		WalletToID:   t.WalletToID,
		CategoryID:   t.CategoryID,
		SaleID:       t.SaleID,
		OrderID:      t.OrderID,
		EmployeeID:   t.EmployeeID,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}

func parseOptionalID(raw *string, field string, errs *[]FieldError) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a valid id"})
		return nil
	}
	return &id
}

func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req recordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	fields := req.Validate()
	walletFrom := parseOptionalID(req.WalletFromID, "wallet_from_id", &fields)
	walletTo := parseOptionalID(req.WalletToID, "wallet_to_id", &fields)
	categoryID := parseOptionalID(req.CategoryID, "category_id", &fields)
	saleID := parseOptionalID(req.SaleID, "sale_id", &fields)
	orderID := parseOptionalID(req.OrderID, "order_id", &fields)
	employeeID := parseOptionalID(req.EmployeeID, "employee_id", &fields)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	amount, _ := decimal.NewFromString(req.Amount)

	txn, err := h.transactions.Record(r.Context(), service.RecordRequest{
		Type:         domain.TransactionType(req.Type),
		Amount:       amount,
		WalletFromID: walletFrom,
		WalletToID:   walletTo,
		CategoryID:   categoryID,
		SaleID:       saleID,
		OrderID:      orderID,
		EmployeeID:   employeeID,
		Description:  req.Description,
		CreatedBy:    &actorID,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record transaction", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	txn, err := h.transactions.GetByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTO(txn))
}

type transactionListDTO struct {
	Items []transactionDTO `json:"items"`
	Total int              `json:"total"`
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	var f repository.TransactionFilter
	q := r.URL.Query()

	if raw := q.Get("wallet"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "wallet", Message: "must be a valid id"}})
			return
		}
		f.WalletID = &id
	}
	if raw := q.Get("type"); raw != "" {
		t := domain.TransactionType(raw)
		if !t.IsValid() {
			RespondValidationError(w, []FieldError{{Field: "type", Message: "unknown transaction type"}})
			return
		}
		f.Type = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be a non-negative integer"}})
			return
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondValidationError(w, []FieldError{{Field: "offset", Message: "must be a non-negative integer"}})
			return
		}
		f.Offset = n
	}

	txns, total, err := h.transactions.List(r.Context(), f)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	items := make([]transactionDTO, len(txns))
	for i := range txns {
		items[i] = toTransactionDTO(&txns[i])
	}

	RespondSuccess(w, http.StatusOK, transactionListDTO{Items: items, Total: total})
}
