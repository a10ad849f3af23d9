package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/synapsnap/quizbot/internal/quiz"
	"github.com/synapsnap/quizbot/internal/rbac"
)

// UploadTestHandler stores a full test definition. The authoring UX lives in
// the transport layer; this only validates and persists the artifact.
func UploadTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t quiz.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		for i := range t.Questions {
			if t.Questions[i].ID == "" {
				t.Questions[i].ID = uuid.NewString()
			}
			t.Questions[i].Ordinal = i
		}
		t.OwnerID = rbac.SubjectFromContext(r.Context())
		if err := t.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": t.ID})
	}
}

// GetTestHandler returns the student-safe view (answer keys stripped).
func GetTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}
