package users

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/campushq/enrollhub/internal/pkg/ctxlog"
	"github.com/campushq/enrollhub/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the users module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers user management routes. All of them require the
// Teacher role; the role gate is applied by the caller.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.CreateUser)
	r.Get("/users", h.ListUsers)
	r.Get("/users/{userID}", h.GetUser)
	r.Put("/users/{userID}", h.UpdateUser)
	r.Delete("/users/{userID}", h.DeleteUser)
	r.Post("/users/{userID}/roles/{roleID}", h.AddUserToRole)
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	FirstName   string    `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string    `json:"last_name" validate:"required,min=1,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string    `json:"phone_number" validate:"max=20"`
	BirthDate   time.Time `json:"birth_date" validate:"required"`
	RoleID      string    `json:"role_id" validate:"required,uuid"`
}

// UpdateUserRequest represents the request body for updating a user's profile.
type UpdateUserRequest struct {
	ID          string    `json:"id" validate:"required,uuid"`
	FirstName   string    `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string    `json:"last_name" validate:"required,min=1,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber string    `json:"phone_number" validate:"max=20"`
	BirthDate   time.Time `json:"birth_date" validate:"required"`
	RoleID      string    `json:"role_id" validate:"required,uuid"`
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	res, err := h.service.Create(r.Context(), CreateUserInput(req))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if res.IsFailure() {
		httputil.HandleFailure(w, res.Err())
		return
	}

	httputil.Success(w, http.StatusCreated, res.Value())
}

// GetUser handles GET /users/{userID}. The response includes the user's
// enrollments with their courses.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}

	res, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if res.IsFailure() {
		httputil.HandleFailure(w, res.Err())
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// ListUsers handles GET /users. With an email query parameter it performs an
// exact-match lookup instead of listing.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		res, err := h.service.GetByEmail(r.Context(), email)
		if err != nil {
			h.internalError(w, r, err)
			return
		}
		if res.IsFailure() {
			httputil.HandleFailure(w, res.Err())
			return
		}
		httputil.Success(w, http.StatusOK, res.Value())
		return
	}

	res, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// UpdateUser handles PUT /users/{userID}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if req.ID != id {
		httputil.Error(w, http.StatusBadRequest, "user id in url does not match user id in body")
		return
	}

	res, err := h.service.Update(r.Context(), UpdateUserInput(req))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if res.IsFailure() {
		httputil.HandleFailure(w, res.Err())
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// DeleteUser handles DELETE /users/{userID}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}

	res, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if res.IsFailure() {
		httputil.HandleFailure(w, res.Err())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddUserToRole handles POST /users/{userID}/roles/{roleID}.
func (h *Handler) AddUserToRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}
	roleID, ok := httputil.UUIDParam(w, r, "roleID")
	if !ok {
		return
	}

	res, err := h.service.AddUserToRole(r.Context(), userID, roleID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if res.IsFailure() {
		httputil.HandleFailure(w, res.Err())
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	ctxlog.FromContext(r.Context()).Error("internal error", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "internal error")
}
