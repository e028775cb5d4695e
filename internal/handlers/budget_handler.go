package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pennybook/backend/internal/apperrors"
	"github.com/pennybook/backend/internal/middleware"
	"github.com/pennybook/backend/internal/services"
)

type createBudgetRequest struct {
	User          string  `json:"user" validate:"omitempty,len=24,hexadecimal"`
	Month         int     `json:"month" validate:"required,min=1,max=12"`
	Year          int     `json:"year" validate:"required,gte=2000"`
	MonthlyGoal   float64 `json:"monthlyGoal" validate:"gte=0"`
	SavingsTarget float64 `json:"savingsTarget" validate:"gte=0"`
}

type updateBudgetRequest struct {
	Month         *int     `json:"month" validate:"omitempty,min=1,max=12"`
	Year          *int     `json:"year" validate:"omitempty,gte=2000"`
	MonthlyGoal   *float64 `json:"monthlyGoal" validate:"omitempty,gte=0"`
	SavingsTarget *float64 `json:"savingsTarget" validate:"omitempty,gte=0"`
}

func (r *updateBudgetRequest) empty() bool {
	return r.Month == nil && r.Year == nil && r.MonthlyGoal == nil && r.SavingsTarget == nil
}

type budgetIDParam struct {
	ID string `json:"id" validate:"required,len=24,hexadecimal"`
}

// BudgetHandler adapts HTTP requests to the budget service. All budget
// routes sit behind RequireAuth.
type BudgetHandler struct {
	budgets  *services.BudgetService
	validate *ValidationHelper
}

func NewBudgetHandler(budgets *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgets:  budgets,
		validate: NewValidationHelper(),
	}
}

// Create handles POST /budgets
// @Summary Create a monthly budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param budget body createBudgetRequest true "Budget data"
// @Success 201 {object} models.BudgetRecord
// @Failure 400 {object} apperrors.Envelope
// @Failure 401 {object} apperrors.Envelope
// @Router /budgets [post]
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	if userID := middleware.UserID(r.Context()); userID != "" {
		req.User = userID
	}

	if err := h.validate.Validate(&req, "body"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	record, err := h.budgets.Create(r.Context(), services.CreateBudgetInput{
		User:          req.User,
		Month:         req.Month,
		Year:          req.Year,
		MonthlyGoal:   req.MonthlyGoal,
		SavingsTarget: req.SavingsTarget,
	})
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

// List handles GET /budgets
// @Summary List the caller's budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BudgetRecord
// @Failure 401 {object} apperrors.Envelope
// @Router /budgets [get]
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.BudgetFilter{User: middleware.UserID(r.Context())}

	records, err := h.budgets.List(r.Context(), filter)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GetByID handles GET /budgets/{id}
// @Summary Get a budget by ID
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 200 {object} models.BudgetRecord
// @Failure 404 {object} apperrors.Envelope
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	params := budgetIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	record, err := h.budgets.GetByID(r.Context(), params.ID)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if record == nil {
		apperrors.WriteError(w, r, apperrors.NotFound("Budget not found"))
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// Update handles PATCH /budgets/{id}
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Param updates body updateBudgetRequest true "Fields to update"
// @Success 200 {object} models.BudgetRecord
// @Failure 400 {object} apperrors.Envelope
// @Failure 404 {object} apperrors.Envelope
// @Router /budgets/{id} [patch]
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := budgetIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	var req updateBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if req.empty() {
		apperrors.WriteError(w, r, apperrors.Validation("Validation failed", apperrors.FieldError{
			Path: "body", Message: "At least one field must be provided for update", Code: "required",
		}))
		return
	}
	if err := h.validate.Validate(&req, "body"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	record, err := h.budgets.Update(r.Context(), params.ID, services.UpdateBudgetInput{
		Month:         req.Month,
		Year:          req.Year,
		MonthlyGoal:   req.MonthlyGoal,
		SavingsTarget: req.SavingsTarget,
	})
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if record == nil {
		apperrors.WriteError(w, r, apperrors.NotFound("Budget not found"))
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /budgets/{id}
// @Summary Delete a budget
// @Tags budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperrors.Envelope
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := budgetIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	deleted, err := h.budgets.Delete(r.Context(), params.ID)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if !deleted {
		apperrors.WriteError(w, r, apperrors.NotFound("Budget not found"))
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
