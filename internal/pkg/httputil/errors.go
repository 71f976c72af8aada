package httputil

import (
	"net/http"
	"strings"

	"github.com/campushq/enrollhub/internal/pkg/result"
)

// Failure writes a business failure as {"error": {"code": ..., "message": ...}}.
func Failure(w http.ResponseWriter, status int, e result.Error) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    e.Code,
			"message": e.Description,
		},
	})
}

// FailureStatus maps a cataloged business error to its HTTP status by the
// reason part of its <Entity>.<Reason> code: NotFound suffixes map to 404,
// AlreadyExists suffixes to 409, everything else to 400. AlreadyEnrolled is
// deliberately a 400, matching the enrollment API contract.
func FailureStatus(e result.Error) int {
	_, reason, _ := strings.Cut(e.Code, ".")
	switch {
	case strings.HasSuffix(reason, "NotFound"):
		return http.StatusNotFound
	case strings.HasSuffix(reason, "AlreadyExists"):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// HandleFailure writes a business failure using its default status mapping.
func HandleFailure(w http.ResponseWriter, e result.Error) {
	Failure(w, FailureStatus(e), e)
}
