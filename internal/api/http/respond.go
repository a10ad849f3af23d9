package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/synapsnap/quizbot/internal/quiz"
	"github.com/synapsnap/quizbot/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeErr maps engine error kinds onto HTTP statuses. InvalidAnswer is an
// expected user-input condition (re-prompt), not a system fault.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionActive):
		writeJSON(w, http.StatusConflict, apiError{err.Error(), "session_already_active"})
	case errors.Is(err, session.ErrNoSession):
		writeJSON(w, http.StatusNotFound, apiError{err.Error(), "no_active_session"})
	case errors.Is(err, quiz.ErrInvalidAnswer):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{err.Error(), "invalid_option"})
	case errors.Is(err, quiz.ErrTestNotFound):
		writeJSON(w, http.StatusNotFound, apiError{err.Error(), "test_not_found"})
	case errors.Is(err, session.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, apiError{err.Error(), "store_unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, apiError{err.Error(), "internal"})
	}
}
