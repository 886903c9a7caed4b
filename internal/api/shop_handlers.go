package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/ingest"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/lifecycle"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/service/shop"
)

// maxUploadSize caps one CSV upload at 100MB; partner exports are far
// smaller, larger drops go through the S3 watcher.
const maxUploadSize = 100 << 20

// parseFilter builds the lifecycle filter from query params. `status` may
// repeat and carries either a group label or a literal event name; the
// dual-match predicate in the query pipeline handles both.
func parseFilter(r *http.Request) lifecycle.Filter {
	q := r.URL.Query()
	return lifecycle.Filter{
		Domain:   q.Get("search"),
		Statuses: q["status"],
		Plan:     q.Get("plan"),
	}
}

func parseSort(r *http.Request) lifecycle.SortSpec {
	q := r.URL.Query()
	return lifecycle.SortSpec{
		Key:        lifecycle.ParseSortKey(q.Get("sort_by")),
		Descending: strings.EqualFold(q.Get("order"), "desc"),
	}
}

// ListShops returns the filtered, sorted, paginated dashboard table.
// GET /api/shops?search=&status=&plan=&sort_by=&order=&page=&limit=
func (h *Handlers) ListShops(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.shops.List(r.Context(), parseFilter(r), parseSort(r), h.now())
	if err != nil {
		logrus.WithError(err).Error("list shops")
		respondError(w, http.StatusInternalServerError, "failed to list shops")
		return
	}

	params := ParsePagination(r, 50, 500)
	total := len(summaries)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(summaries[start:end], params, total))
}

// GetShop returns one enriched record.
// GET /api/shops/{domain}
func (h *Handlers) GetShop(w http.ResponseWriter, r *http.Request) {
	shopDomain := strings.ToLower(chi.URLParam(r, "domain"))

	sum, err := h.shops.Get(r.Context(), shopDomain, h.now())
	if errors.Is(err, shop.ErrNotFound) {
		respondError(w, http.StatusNotFound, "shop not found")
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("shop", shopDomain).Error("get shop")
		respondError(w, http.StatusInternalServerError, "failed to load shop")
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

// ExportShops streams the filtered, sorted table as a CSV download.
// GET /api/shops/export?search=&status=&plan=&sort_by=&order=
func (h *Handlers) ExportShops(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("shops_%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.shops.ExportCSV(r.Context(), w, parseFilter(r), parseSort(r), h.now()); err != nil {
		// Headers may already be out; log and abort the stream.
		logrus.WithError(err).Error("export shops")
	}
}

// UploadShops ingests one multipart CSV batch synchronously and returns
// the outcome envelope.
// POST /api/shops/upload  (multipart field "file")
func (h *Handlers) UploadShops(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	uploadID := uuid.New().String()
	out := h.ingester.ImportFromReader(r.Context(), file, uploadID)

	entry := logrus.WithFields(logrus.Fields{
		"upload_id": uploadID,
		"filename":  header.Filename,
		"rows":      out.RowsRead,
		"skipped":   out.RowsSkipped,
		"shops":     out.TotalShops,
	})

	status := http.StatusOK
	if out.Status != "Success" {
		entry.WithField("error", out.Error).Warn("shop upload failed")
		status = http.StatusUnprocessableEntity
	} else {
		entry.Info("shop upload complete")
	}

	respondJSON(w, status, struct {
		UploadID string `json:"uploadId"`
		ingest.Outcome
	}{uploadID, out})
}

// GetUploadProgress reports the redis-tracked state of an upload.
// GET /api/shops/upload/{uploadId}/progress
func (h *Handlers) GetUploadProgress(w http.ResponseWriter, r *http.Request) {
	if h.progress == nil {
		respondError(w, http.StatusNotImplemented, "progress tracking not configured")
		return
	}

	prog, err := h.progress.Get(r.Context(), chi.URLParam(r, "uploadId"))
	if errors.Is(err, ingest.ErrProgressNotFound) {
		respondError(w, http.StatusNotFound, "upload not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	respondJSON(w, http.StatusOK, prog)
}
