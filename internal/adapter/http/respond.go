package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"flavorfi/internal/domain"
)

// All error bodies have the shape {"msg": "..."}.
type messageResponse struct {
	Msg string `json:"msg"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Msg: msg})
}

// respondDomainError maps the domain error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an internal fault and leaks no detail.
func respondDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		respondMessage(w, status, "Internal server error")
		return
	}
	respondMessage(w, status, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
