package enrollments

import (
	"encoding/json"
	"net/http"

	"github.com/campushq/enrollhub/internal/pkg/ctxlog"
	"github.com/campushq/enrollhub/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the enrollments module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new enrollments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers enrollment routes. All of them require the Student
// role; the role gate is applied by the caller.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/enrollments", h.CreateEnrollment)
	r.Get("/enrollments", h.ListEnrollments)
	r.Get("/enrollments/{enrollmentID}", h.GetEnrollment)
	r.Delete("/enrollments/{enrollmentID}", h.DeleteEnrollment)
	r.Get("/users/{userID}/enrollments", h.ListUserEnrollments)
	r.Get("/users/{userID}/enrollments/units", h.GetUserTotalUnits)
	r.Get("/courses/{courseID}/enrollments", h.ListCourseEnrollments)
}

// CreateEnrollmentRequest represents the request body for creating an enrollment.
type CreateEnrollmentRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// CreateEnrollment handles POST /enrollments.
func (h *Handler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req CreateEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	res, err := h.service.Create(r.Context(), CreateEnrollmentInput(req))
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

// GetEnrollment handles GET /enrollments/{enrollmentID}.
func (h *Handler) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "enrollmentID")
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

// ListEnrollments handles GET /enrollments.
func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// ListUserEnrollments handles GET /users/{userID}/enrollments.
func (h *Handler) ListUserEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}

	res, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// GetUserTotalUnits handles GET /users/{userID}/enrollments/units.
func (h *Handler) GetUserTotalUnits(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UUIDParam(w, r, "userID")
	if !ok {
		return
	}

	res, err := h.service.TotalUnitsForUser(r.Context(), userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]int{"total_units": res.Value()})
}

// ListCourseEnrollments handles GET /courses/{courseID}/enrollments.
func (h *Handler) ListCourseEnrollments(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.UUIDParam(w, r, "courseID")
	if !ok {
		return
	}

	res, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, res.Value())
}

// DeleteEnrollment handles DELETE /enrollments/{enrollmentID}.
func (h *Handler) DeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "enrollmentID")
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
