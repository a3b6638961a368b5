package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler exposes the registry over HTTP: GET /metrics serves the counter
// snapshot, GET /healthz serves liveness with the instance id.
func (r *Registry) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.NoCache)

	router.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, r.Snapshot())
	})
	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"instance": r.instance,
			"uptime":   time.Since(r.started).String(),
		})
	})
	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
