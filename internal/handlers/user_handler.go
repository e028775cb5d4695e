package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pennybook/backend/internal/apperrors"
	"github.com/pennybook/backend/internal/services"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signinUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type userIDParam struct {
	ID string `json:"id" validate:"required,len=24,hexadecimal"`
}

// UserHandler adapts HTTP requests to the user service.
type UserHandler struct {
	users    *services.UserService
	validate *ValidationHelper
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: NewValidationHelper(),
	}
}

// Create handles POST /users/create
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "Registration data"
// @Success 201 {object} models.UserRecord
// @Failure 400 {object} apperrors.Envelope
// @Failure 409 {object} apperrors.Envelope
// @Router /users/create [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Registration attempt from IP: %s", r.RemoteAddr)

	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	if err := h.validate.Validate(&req, "body"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	record, err := h.users.Create(r.Context(), services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

// SignIn handles POST /users/signinUser
// @Summary Sign in with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body signinUserRequest true "Credentials"
// @Success 200 {object} services.SignInResult
// @Failure 401 {object} apperrors.Envelope
// @Failure 404 {object} apperrors.Envelope
// @Router /users/signinUser [post]
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Sign-in attempt from IP: %s", r.RemoteAddr)

	var req signinUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	if err := h.validate.Validate(&req, "body"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	result, err := h.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID handles GET /users/{id}
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserRecord
// @Failure 404 {object} apperrors.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	params := userIDParam{ID: chi.URLParam(r, "id")}
	if err := h.validate.Validate(&params, "params"); err != nil {
		apperrors.WriteError(w, r, err)
		return
	}

	record, err := h.users.GetByID(r.Context(), params.ID)
	if err != nil {
		apperrors.WriteError(w, r, err)
		return
	}
	if record == nil {
		apperrors.WriteError(w, r, apperrors.NotFound("User not found"))
		return
	}

	respondJSON(w, http.StatusOK, record)
}
