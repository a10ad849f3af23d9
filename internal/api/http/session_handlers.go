package http

import (
	"encoding/json"
	"net/http"

	"github.com/synapsnap/quizbot/internal/rbac"
	"github.com/synapsnap/quizbot/internal/session"
)

// The student identity is always the authenticated subject; the transport
// adapter never picks it per request.

func StartSessionHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TestID string `json:"test_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TestID == "" {
			http.Error(w, "test_id required", http.StatusBadRequest)
			return
		}
		p, err := engine.Start(r.Context(), rbac.SubjectFromContext(r.Context()), req.TestID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func SubmitAnswerHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answer string `json:"answer"`
			Skip   bool   `json:"skip,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		step, err := engine.Submit(r.Context(), rbac.SubjectFromContext(r.Context()), req.Answer, req.Skip)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, step)
	}
}

func ResumeSessionHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := engine.Resume(r.Context(), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func AbandonSessionHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Abandon(r.Context(), rbac.SubjectFromContext(r.Context())); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
