package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prostore/cashdesk/internal/auth"
	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/repository"
	"github.com/prostore/cashdesk/internal/service"
)

type shiftService interface {
	Open(ctx context.Context, req service.OpenShiftRequest) (*domain.CashShift, error)
	Close(ctx context.Context, req service.CloseShiftRequest) (*domain.CashShift, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CashShift, error)
	List(ctx context.Context, f repository.ShiftFilter) ([]domain.CashShift, error)
}

type reconcileService interface {
	Recompute(ctx context.Context, shiftID uuid.UUID) (*service.ReconciliationReport, error)
}

type ShiftHandler struct {
	shifts    shiftService
	reconcile reconcileService
}

func NewShiftHandler(shifts shiftService, reconcile reconcileService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, reconcile: reconcile}
}

type openShiftRequest struct {
	WalletID string `json:"wallet_id"`
}

type closeShiftRequest struct {
	ActualBalanceAtClose string `json:"actual_balance_at_close"`
	Notes                string `json:"notes"`
}

type shiftDTO struct {
	ID              uuid.UUID        `json:"id"`
	WalletID        uuid.UUID        `json:"wallet_id"`
	TradingPointID  uuid.UUID        `json:"trading_point_id"`
	OpenedBy        uuid.UUID        `json:"opened_by"`
	ClosedBy        *uuid.UUID       `json:"closed_by,omitempty"`
	Status          string           `json:"status"`
	StatusLabel     string           `json:"status_label"`
	OpenedAt        time.Time        `json:"opened_at"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	BalanceAtOpen   decimal.Decimal  `json:"balance_at_open"`
	ExpectedAtClose *decimal.Decimal `json:"expected_balance_at_close,omitempty"`
	ActualAtClose   *decimal.Decimal `json:"actual_balance_at_close,omitempty"`
	Discrepancy     *decimal.Decimal `json:"discrepancy,omitempty"`
	Notes           string           `json:"notes"`
}

func toShiftDTO(s *domain.CashShift) shiftDTO {
	return shiftDTO{
		ID:              s.ID,
		WalletID:        s.WalletID,
		TradingPointID:  s.TradingPointID,
		OpenedBy:        s.OpenedBy,
		ClosedBy:        s.ClosedBy,
		Status:          string(s.Status),
		StatusLabel:     shiftStatusLabel(s.Status),
		OpenedAt:        s.OpenedAt,
		ClosedAt:        s.ClosedAt,
		BalanceAtOpen:   s.BalanceAtOpen,
		ExpectedAtClose: s.ExpectedAtClose,
		ActualAtClose:   s.ActualAtClose,
		Discrepancy:     s.Discrepancy,
		Notes:           s.Notes,
	}
}

func (h *ShiftHandler) Open(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req openShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "wallet_id", Message: "must be a valid wallet id"}})
		return
	}

	shift, err := h.shifts.Open(r.Context(), service.OpenShiftRequest{
		WalletID:       walletID,
		TradingPointID: claims.TradingPointID,
		OpenedBy:       claims.UserID,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to open shift", "error", err, "wallet_id", walletID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toShiftDTO(shift))
}

func (h *ShiftHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	shiftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req closeShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	// The dialog only soft-warns on an empty counted balance; the contract
	// here is a hard failure.
	if req.ActualBalanceAtClose == "" {
		RespondAppError(w, ErrInvalidAmount, nil)
		return
	}
	actual, err := decimal.NewFromString(req.ActualBalanceAtClose)
	if err != nil {
		RespondAppError(w, ErrInvalidAmount, nil)
		return
	}

	shift, err := h.shifts.Close(r.Context(), service.CloseShiftRequest{
		ShiftID:       shiftID,
		ActualBalance: actual,
		ClosedBy:      claims.UserID,
		Notes:         req.Notes,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to close shift", "error", err, "shift_id", shiftID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toShiftDTO(shift))
}

func (h *ShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	shiftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	shift, err := h.shifts.GetByID(r.Context(), shiftID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toShiftDTO(shift))
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	var f repository.ShiftFilter
	q := r.URL.Query()

	if raw := q.Get("trading_point"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "trading_point", Message: "must be a valid id"}})
			return
		}
		f.TradingPointID = &id
	}
	if raw := q.Get("wallet"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "wallet", Message: "must be a valid id"}})
			return
		}
		f.WalletID = &id
	}
	if raw := q.Get("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "from", Message: "must be RFC3339"}})
			return
		}
		f.From = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "to", Message: "must be RFC3339"}})
			return
		}
		f.To = &ts
	}

	shifts, err := h.shifts.List(r.Context(), f)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list shifts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]shiftDTO, len(shifts))
	for i := range shifts {
		dtos[i] = toShiftDTO(&shifts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

type reconciliationDTO struct {
	ShiftID       uuid.UUID       `json:"shift_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	WindowFrom    time.Time       `json:"window_from"`
	WindowTo      time.Time       `json:"window_to"`
	BalanceAtOpen decimal.Decimal `json:"balance_at_open"`
	WindowDelta   decimal.Decimal `json:"window_delta"`
	Recomputed    decimal.Decimal `json:"recomputed_balance"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	Matches       bool            `json:"matches"`
}

// Reconciliation re-derives the expected balance from the transaction log
// and reports whether it agrees with the ledger.
func (h *ShiftHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	shiftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	report, err := h.reconcile.Recompute(r.Context(), shiftID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to recompute shift", "error", err, "shift_id", shiftID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, reconciliationDTO{
		ShiftID:       report.ShiftID,
		WalletID:      report.WalletID,
		WindowFrom:    report.WindowFrom,
		WindowTo:      report.WindowTo,
		BalanceAtOpen: report.BalanceAtOpen,
		WindowDelta:   report.WindowDelta,
		Recomputed:    report.Recomputed,
		LedgerBalance: report.LedgerBalance,
		Matches:       report.Matches,
	})
}
