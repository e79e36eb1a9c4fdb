package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports server liveness and the loaded run.
type HealthHandler struct {
	runID     string
	startedAt time.Time
}

// NewHealthHandler creates a health handler for the given run.
func NewHealthHandler(runID string) *HealthHandler {
	return &HealthHandler{runID: runID, startedAt: time.Now().UTC()}
}

// Healthz returns liveness status along with the run ID the server is
// currently serving.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":     "ok",
		"run_id":     h.runID,
		"started_at": h.startedAt.Format(time.RFC3339),
		"uptime":     time.Since(h.startedAt).String(),
	})
}
