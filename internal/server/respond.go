package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/trans/internal/translate"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// translateStatus maps a translation failure to an HTTP status: bad input
// is the caller's fault, everything else is an upstream failure.
func translateStatus(err error) int {
	switch {
	case errors.Is(err, translate.ErrEmptyText),
		errors.Is(err, translate.ErrSameLanguage),
		errors.Is(err, translate.ErrUnknownLanguage):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
