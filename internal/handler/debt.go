package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/repository"
	"github.com/prostore/cashdesk/internal/service"
)

type debtService interface {
	Create(ctx context.Context, req service.CreateDebtRequest) (*domain.Debt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error)
	List(ctx context.Context, f repository.DebtFilter) ([]domain.Debt, error)
	Pay(ctx context.Context, debtID uuid.UUID, payment decimal.Decimal) (*domain.Debt, error)
}

type DebtHandler struct {
	debts debtService
}

func NewDebtHandler(debts debtService) *DebtHandler {
	return &DebtHandler{debts: debts}
}

type createDebtRequest struct {
	DebtType         string  `json:"debt_type"`
	Direction        string  `json:"direction"`
	CounterpartyName string  `json:"counterparty_name"`
	Amount           string  `json:"amount"`
	DueDate          *string `json:"due_date"`
	Notes            string  `json:"notes"`
}

func (r createDebtRequest) Validate() []FieldError {
	var errs []FieldError
	if r.DebtType == "" {
		errs = append(errs, FieldError{Field: "debt_type", Message: "required"})
	} else if !domain.DebtType(r.DebtType).IsValid() {
		errs = append(errs, FieldError{Field: "debt_type", Message: "unknown debt type"})
	}
	if r.Direction == "" {
		errs = append(errs, FieldError{Field: "direction", Message: "required"})
	} else if !domain.DebtDirection(r.Direction).IsValid() {
		errs = append(errs, FieldError{Field: "direction", Message: "must be we_owe or owed_to_us"})
	}
	if r.CounterpartyName == "" {
		errs = append(errs, FieldError{Field: "counterparty_name", Message: "required"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	} else if _, err := decimal.NewFromString(r.Amount); err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal number"})
	}
	return errs
}

type payDebtRequest struct {
	Amount string `json:"amount"`
}

type debtDTO struct {
	ID               uuid.UUID       `json:"id"`
	DebtType         string          `json:"debt_type"`
	Direction        string          `json:"direction"`
	CounterpartyName string          `json:"counterparty_name"`
	Amount           decimal.Decimal `json:"amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	Remaining        decimal.Decimal `json:"remaining"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	IsClosed         bool            `json:"is_closed"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toDebtDTO(d *domain.Debt) debtDTO {
	return debtDTO{
		ID:               d.ID,
		DebtType:         string(d.DebtType),
		Direction:        string(d.Direction),
		CounterpartyName: d.CounterpartyName,
		Amount:           d.Amount,
		PaidAmount:       d.PaidAmount,
		Remaining:        d.Remaining(),
		DueDate:          d.DueDate,
		IsClosed:         d.IsClosed,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
	}
}

func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		ts, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "due_date", Message: "must be YYYY-MM-DD"}})
			return
		}
		dueDate = &ts
	}

	amount, _ := decimal.NewFromString(req.Amount)

	debt, err := h.debts.Create(r.Context(), service.CreateDebtRequest{
		DebtType:         domain.DebtType(req.DebtType),
		Direction:        domain.DebtDirection(req.Direction),
		CounterpartyName: req.CounterpartyName,
		Amount:           amount,
		DueDate:          dueDate,
		Notes:            req.Notes,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create debt", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toDebtDTO(debt))
}

func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	debt, err := h.debts.GetByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toDebtDTO(debt))
}

func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	var f repository.DebtFilter
	q := r.URL.Query()

	if raw := q.Get("debt_type"); raw != "" {
		t := domain.DebtType(raw)
		if !t.IsValid() {
			RespondValidationError(w, []FieldError{{Field: "debt_type", Message: "unknown debt type"}})
			return
		}
		f.DebtType = &t
	}
	if raw := q.Get("direction"); raw != "" {
		d := domain.DebtDirection(raw)
		if !d.IsValid() {
			RespondValidationError(w, []FieldError{{Field: "direction", Message: "must be we_owe or owed_to_us"}})
			return
		}
		f.Direction = &d
	}
	if raw := q.Get("is_closed"); raw != "" {
		closed, err := strconv.ParseBool(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "is_closed", Message: "must be true or false"}})
			return
		}
		f.IsClosed = &closed
	}

	debts, err := h.debts.List(r.Context(), f)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list debts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]debtDTO, len(debts))
	for i := range debts {
		dtos[i] = toDebtDTO(&debts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *DebtHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req payDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Amount == "" {
		RespondAppError(w, ErrInvalidAmount, nil)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondAppError(w, ErrInvalidAmount, nil)
		return
	}

	debt, err := h.debts.Pay(r.Context(), id, amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record debt payment", "error", err, "debt_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toDebtDTO(debt))
}
