package courses

import (
	"encoding/json"
	"net/http"

	"github.com/campushq/enrollhub/internal/pkg/ctxlog"
	"github.com/campushq/enrollhub/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the courses module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new courses handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers read-only course routes.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/courses", h.ListCourses)
	r.Get("/courses/{courseID}", h.GetCourse)
}

// RegisterTeacherRoutes registers routes that require the Teacher role.
func (h *Handler) RegisterTeacherRoutes(r chi.Router) {
	r.Post("/courses", h.CreateCourse)
	r.Put("/courses/{courseID}", h.UpdateCourse)
	r.Delete("/courses/{courseID}", h.DeleteCourse)
}

// CreateCourseRequest represents the request body for creating a course.
type CreateCourseRequest struct {
	CourseCode string `json:"course_code" validate:"required,min=1,max=20"`
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Units      int    `json:"units" validate:"required,min=1,max=10"`
}

// UpdateCourseRequest represents the request body for updating a course.
// Update is a full overwrite of the mutable fields.
type UpdateCourseRequest struct {
	ID         string `json:"id" validate:"required,uuid"`
	CourseCode string `json:"course_code" validate:"required,min=1,max=20"`
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Units      int    `json:"units" validate:"required,min=1,max=10"`
}

// CreateCourse handles POST /courses.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	res, err := h.service.Create(r.Context(), CreateCourseInput(req))
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

// GetCourse handles GET /courses/{courseID}.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "courseID")
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

// ListCourses handles GET /courses. With a code query parameter it performs
// an exact-match lookup by course code instead of listing.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("code"); code != "" {
		res, err := h.service.GetByCode(r.Context(), code)
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

// UpdateCourse handles PUT /courses/{courseID}.
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "courseID")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if req.ID != id {
		httputil.Error(w, http.StatusBadRequest, "course id in url does not match course id in body")
		return
	}

	res, err := h.service.Update(r.Context(), UpdateCourseInput(req))
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

// DeleteCourse handles DELETE /courses/{courseID}.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.UUIDParam(w, r, "courseID")
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
