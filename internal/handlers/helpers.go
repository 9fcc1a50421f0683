package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/white/crm-backend/internal/models"
	"github.com/white/crm-backend/internal/repositories"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithStoreError maps gateway errors onto the HTTP taxonomy: missing
// rows become 404 with an entity-specific message, dangling references 422,
// everything else 500
func respondWithStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case repositories.IsNotFound(err):
		respondWithError(w, http.StatusNotFound, notFoundMessage)
	case repositories.IsInvalidReference(err):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondWithValidationError maps validation failures to 422 and everything
// else to 400
func respondWithValidationError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		respondWithError(w, http.StatusUnprocessableEntity, ve.Error())
		return
	}
	respondWithError(w, http.StatusBadRequest, err.Error())
}

// parsePagination reads skip/limit query params with the gateway defaults
func parsePagination(r *http.Request) (skip, limit int) {
	skip = defaultSkip
	limit = defaultLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}

	return skip, limit
}
