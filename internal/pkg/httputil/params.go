package httputil

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UUIDParam extracts a UUID path parameter. Ids come from uuid columns, so a
// malformed value can never match a row; it gets a 400 here instead of a
// cast error at the store. Returns false after writing the response.
func UUIDParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if _, err := uuid.Parse(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return v, true
}
