package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/prostore/cashdesk/internal/domain"
	"github.com/prostore/cashdesk/internal/logging"
)

type categoryLister interface {
	List(ctx context.Context, direction *domain.CategoryDirection) ([]domain.TransactionCategory, error)
}

type CategoryHandler struct {
	categories categoryLister
}

func NewCategoryHandler(categories categoryLister) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Direction string    `json:"direction"`
	IsSystem  bool      `json:"is_system"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var direction *domain.CategoryDirection
	if raw := r.URL.Query().Get("direction"); raw != "" {
		d := domain.CategoryDirection(raw)
		if d != domain.CategoryDirectionIncome && d != domain.CategoryDirectionExpense {
			RespondValidationError(w, []FieldError{{Field: "direction", Message: "must be income or expense"}})
			return
		}
		direction = &d
	}

	categories, err := h.categories.List(r.Context(), direction)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list categories", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]categoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = categoryDTO{
			ID:        c.ID,
			Name:      c.Name,
			Direction: string(c.Direction),
			IsSystem:  c.IsSystem,
		}
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
