package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapsnap/quizbot/internal/assets"
	"github.com/synapsnap/quizbot/internal/rbac"
)

// MountAssets wires question-photo upload/download onto the router.
func MountAssets(r chi.Router, bs assets.BlobStore) {
	r.With(rbac.Require("asset:create")).Post("/", func(w http.ResponseWriter, req *http.Request) {
		defer req.Body.Close()
		key, err := bs.Put(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	})
	r.With(rbac.Require("asset:view")).Get("/{key}", func(w http.ResponseWriter, req *http.Request) {
		rc, err := bs.Get(chi.URLParam(req, "key"))
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	})
}
