package api

import (
	"net/http"
	"time"
)

// WatcherControl is the view of the S3 drop-folder watcher the API exposes.
type WatcherControl interface {
	IsHealthy() bool
	IsRunning() bool
	LastRunAt() time.Time
	ManualTrigger()
}

// SetWatcher wires the S3 watcher into the status and trigger endpoints.
// Call before SetupRoutes; without it the endpoints report not configured.
func (h *Handlers) SetWatcher(w WatcherControl) {
	h.watcher = w
}

// GetWatcherStatus returns health and run state of the S3 watcher.
// GET /api/watcher/status
func (h *Handlers) GetWatcherStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"initialized": h.watcher != nil,
	}
	if h.watcher != nil {
		status["healthy"] = h.watcher.IsHealthy()
		status["running"] = h.watcher.IsRunning()
		if lastRun := h.watcher.LastRunAt(); !lastRun.IsZero() {
			status["last_run_at"] = lastRun
		}
	}
	respondJSON(w, http.StatusOK, status)
}

// TriggerWatcher starts a poll cycle outside the regular schedule.
// POST /api/watcher/trigger
func (h *Handlers) TriggerWatcher(w http.ResponseWriter, r *http.Request) {
	if h.watcher == nil {
		respondError(w, http.StatusServiceUnavailable, "watcher not configured")
		return
	}
	if h.watcher.IsRunning() {
		respondJSON(w, http.StatusOK, map[string]string{"status": "already_running"})
		return
	}
	h.watcher.ManualTrigger()
	respondJSON(w, http.StatusOK, map[string]string{"status": "triggered"})
}
