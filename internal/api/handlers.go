package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/ingest"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/service/shop"
)

// Handlers bundles the HTTP handler dependencies.
type Handlers struct {
	shops    *shop.Service
	ingester *ingest.Ingester
	progress *ingest.ProgressTracker
	watcher  WatcherControl

	// now is the evaluation instant for derived billing values; injectable
	// so handler tests get deterministic accruals.
	now func() time.Time
}

// NewHandlers creates the handler set. progress may be nil when redis is
// not configured.
func NewHandlers(shops *shop.Service, ingester *ingest.Ingester, progress *ingest.ProgressTracker) *Handlers {
	return &Handlers{
		shops:    shops,
		ingester: ingester,
		progress: progress,
		now:      time.Now,
	}
}

// HealthCheck reports liveness.
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetDashboard returns the status-count sums the overview chart renders.
// GET /api/dashboard
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.shops.Dashboard(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
