package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pennybook/backend/internal/apperrors"
	"github.com/pennybook/backend/internal/middleware"
	"github.com/pennybook/backend/internal/services"
)

type createTransactionRequest struct {
	User     string  `json:"user" validate:"omitempty,len=24,hexadecimal"`
	Type     string  `json:"type" validate:"required,oneof=income expense"`
	Category string  `json:"category" validate:"required,min=1"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Date     string  `json:"date"` // RFC 3339 or YYYY-MM-DD; parsed here, not by validation
	Note     string  `json:"note"`
}

type updateTransactionRequest struct {
	Type     *string  `json:"type" validate:"omitempty,oneof=income expense"`
	Category *string  `json:"category" validate:"omitempty,min=1"`
	Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
	Date     *string  `json:"date"`
	Note     *string  `json:"note"`
}

func (r *updateTransactionRequest) empty() bool {
	return r.Type == nil && r.Category == nil && r.Amount == nil && r.Date == nil && r.Note == nil
}

type transactionIDParam struct {
	ID string `json:"id" validate:"required,len=24,hexadecimal"`
}

// TransactionHandler adapts HTTP requests to the transaction service.
type TransactionHandler struct {
	transactions *services.TransactionService
	validate     *ValidationHelper
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		validate:     NewValidationHelper(),
	}
}

// Create handles POST /transactions
// @Summary Record an income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body createTransactionRequest true "Transaction data"
// @Success 201 {object} models.TransactionRecord
// @Failure 400 {object} apperrors.Envelope
// @Router /transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	// The authenticated caller, when present, owns the transaction.
	if userID := middleware.UserID(r.Context()); userID != "" {
		req.User = userID
	}

	if err := h.validate.Validate(&req, "body"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if req.User == "" {
		apperrors.WriteError(w, r, apperrors.Validation("Validation failed", apperrors.FieldError{
			Path: "body.user", Message: "user is required", Code: "required",
		}))
		return
	}

	input := services.CreateTransactionInput{
		User:     req.User,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			apperrors.WriteError(w, r, apperrors.Validation("Validation failed", apperrors.FieldError{
				Path: "body.date", Message: "Invalid date", Code: "datetime",
			}))
			return
		}
		input.Date = date
	}

	record, err := h.transactions.Create(r.Context(), input)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

// List handles GET /transactions
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Success 200 {array} models.TransactionRecord
// @Router /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.TransactionFilter{User: middleware.UserID(r.Context())}

	records, err := h.transactions.List(r.Context(), filter)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GetByID handles GET /transactions/{id}
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.TransactionRecord
// @Failure 404 {object} apperrors.Envelope
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	params := transactionIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	record, err := h.transactions.GetByID(r.Context(), params.ID)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if record == nil {
		apperrors.WriteError(w, r, apperrors.NotFound("Transaction not found"))
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// Update handles PATCH /transactions/{id}
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param updates body updateTransactionRequest true "Fields to update"
// @Success 200 {object} models.TransactionRecord
// @Failure 400 {object} apperrors.Envelope
// @Failure 404 {object} apperrors.Envelope
// @Router /transactions/{id} [patch]
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := transactionIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	var req updateTransactionRequest
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

	input := services.UpdateTransactionInput{
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			apperrors.WriteError(w, r, apperrors.Validation("Validation failed", apperrors.FieldError{
				Path: "body.date", Message: "Invalid date", Code: "datetime",
			}))
			return
		}
		input.Date = &date
	}

	record, err := h.transactions.Update(r.Context(), params.ID, input)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if record == nil {
		apperrors.WriteError(w, r, apperrors.NotFound("Transaction not found"))
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /transactions/{id}
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperrors.Envelope
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := transactionIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	deleted, err := h.transactions.Delete(r.Context(), params.ID)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if !deleted {
		apperrors.WriteError(w, r, apperrors.NotFound("Transaction not found"))
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Summary handles GET /transactions/summary/all
// @Summary Get income/expense totals
// @Tags transactions
// @Produce json
// @Success 200 {object} models.Summary
// @Router /transactions/summary/all [get]
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter := services.TransactionFilter{User: middleware.UserID(r.Context())}

	summary, err := h.transactions.GetSummary(r.Context(), filter)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
