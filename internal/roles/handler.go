package roles

import (
	"encoding/json"
	"net/http"

	"github.com/campushq/enrollhub/internal/pkg/ctxlog"
	"github.com/campushq/enrollhub/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the roles module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new roles handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers role management routes. All of them require the
// Teacher role; the role gate is applied by the caller.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/roles", h.CreateRole)
	r.Get("/roles", h.ListRoles)
	r.Get("/roles/{roleID}", h.GetRole)
	r.Put("/roles/{roleID}", h.UpdateRole)
	r.Delete("/roles/{roleID}", h.DeleteRole)
	r.Get("/users/{userID}/roles", h.GetUserRoles)
}

// CreateRoleRequest represents the request body for creating a role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateRoleRequest represents the request body for updating a role.
type UpdateRoleRequest struct {
	ID          string `json:"id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// CreateRole handles POST /roles.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	res, err := h.service.Create(r.Context(), CreateRoleInput(req))
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

// GetRole handles GET /roles/{roleID}. The response includes the member list.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "roleID")
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

// ListRoles handles GET /roles. With a name query parameter it performs an
// exact-match lookup instead of listing.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		res, err := h.service.GetByName(r.Context(), name)
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

// GetUserRoles handles GET /users/{userID}/roles.
func (h *Handler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}

	res, err := h.service.GetUserRoles(r.Context(), userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// UpdateRole handles PUT /roles/{roleID}.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "roleID")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if req.ID != id {
		httputil.Error(w, http.StatusBadRequest, "role id in url does not match role id in body")
		return
	}

	res, err := h.service.Update(r.Context(), UpdateRoleInput(req))
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

// DeleteRole handles DELETE /roles/{roleID}.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "roleID")
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

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	ctxlog.FromContext(r.Context()).Error("internal error", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "internal error")
}
