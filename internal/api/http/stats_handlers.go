package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/synapsnap/quizbot/internal/results"
)

// GET /tests/{testID}/stats
func StatsHandler(agg *results.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := agg.StatisticsFor(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// GET /tests/{testID}/results?limit=10 — recent result history, newest first.
func ResultsListHandler(agg *results.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		list, err := agg.ListByTest(r.Context(), chi.URLParam(r, "testID"), limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []results.Result{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
