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
	"github.com/prostore/cashdesk/internal/service"
)

type ledgerService interface {
	ListWallets(ctx context.Context, walletType *domain.WalletType) ([]domain.Wallet, error)
	Summary(ctx context.Context) (*service.WalletSummary, error)
	CreateWallet(ctx context.Context, req service.CreateWalletRequest) (*domain.Wallet, error)
}

type WalletHandler struct {
	ledger ledgerService
}

func NewWalletHandler(ledger ledgerService) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

type createWalletRequest struct {
	Name          string `json:"name"`
	WalletType    string `json:"wallet_type"`
	AllowNegative bool   `json:"allow_negative"`
	Notes         string `json:"notes"`
}

func (r createWalletRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.WalletType == "" {
		errs = append(errs, FieldError{Field: "wallet_type", Message: "required"})
	} else if !domain.WalletType(r.WalletType).IsValid() {
		errs = append(errs, FieldError{Field: "wallet_type", Message: "unknown wallet type"})
	}
	return errs
}

type walletDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	WalletType    string          `json:"wallet_type"`
	TypeLabel     string          `json:"type_label"`
	Balance       decimal.Decimal `json:"balance"`
	AllowNegative bool            `json:"allow_negative"`
	OwnerID       *uuid.UUID      `json:"owner_id,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toWalletDTO(w *domain.Wallet) walletDTO {
	return walletDTO{
		ID:            w.ID,
		Name:          w.Name,
		WalletType:    string(w.WalletType),
		TypeLabel:     walletTypeLabel(w.WalletType),
		Balance:       w.Balance,
		AllowNegative: w.AllowNegative,
		OwnerID:       w.OwnerID,
		IsActive:      w.IsActive,
		CreatedAt:     w.CreatedAt,
	}
}

func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	wallet, err := h.ledger.CreateWallet(r.Context(), service.CreateWalletRequest{
		Name:          req.Name,
		WalletType:    domain.WalletType(req.WalletType),
		AllowNegative: req.AllowNegative,
		OwnerID:       &actorID,
		Notes:         req.Notes,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create wallet", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toWalletDTO(wallet))
}

func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	var walletType *domain.WalletType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := domain.WalletType(raw)
		walletType = &t
	}

	wallets, err := h.ledger.ListWallets(r.Context(), walletType)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list wallets", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]walletDTO, len(wallets))
	for i := range wallets {
		dtos[i] = toWalletDTO(&wallets[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

type walletSummaryDTO struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
	WalletsCount int             `json:"wallets_count"`
}

func (h *WalletHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.Summary(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute wallet summary", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, walletSummaryDTO{
		TotalBalance: summary.TotalBalance,
		WalletsCount: summary.WalletsCount,
	})
}
