package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Upload phases reported while a file is processed.
const (
	PhaseReading  = "reading"
	PhaseMerging  = "merging"
	PhaseComplete = "complete"
	PhaseFailed   = "failed"
)

// ErrProgressNotFound is returned when no progress exists for an upload ID.
var ErrProgressNotFound = errors.New("upload progress not found")

const progressTTL = 24 * time.Hour

// Progress is the state of one upload, polled by the UI while a file runs.
type Progress struct {
	UploadID    string    `json:"uploadId"`
	Phase       string    `json:"phase"`
	RowsRead    int       `json:"rowsRead"`
	RowsSkipped int       `json:"rowsSkipped"`
	TotalShops  int       `json:"totalShops"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProgressTracker stores per-upload progress in redis with a 24h TTL, so
// the browser can poll while a large file is ingested and stale sessions
// expire on their own.
type ProgressTracker struct {
	client *redis.Client
}

// NewProgressTracker creates a redis-backed progress tracker.
func NewProgressTracker(client *redis.Client) *ProgressTracker {
	return &ProgressTracker{client: client}
}

func progressKey(uploadID string) string {
	return "shopimport:progress:" + uploadID
}

func (p *ProgressTracker) set(ctx context.Context, prog Progress) {
	prog.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(prog)
	if err != nil {
		return
	}
	// Progress is advisory; an unreachable redis must not fail the import.
	p.client.Set(ctx, progressKey(prog.UploadID), data, progressTTL)
}

// Update records row counts for an in-flight upload.
func (p *ProgressTracker) Update(ctx context.Context, uploadID, phase string, rowsRead, rowsSkipped int) {
	p.set(ctx, Progress{UploadID: uploadID, Phase: phase, RowsRead: rowsRead, RowsSkipped: rowsSkipped})
}

// Complete records the final outcome of a finished upload.
func (p *ProgressTracker) Complete(ctx context.Context, uploadID string, out Outcome) {
	p.set(ctx, Progress{
		UploadID:    uploadID,
		Phase:       PhaseComplete,
		RowsRead:    out.RowsRead,
		RowsSkipped: out.RowsSkipped,
		TotalShops:  out.TotalShops,
	})
}

// Fail records a failed upload.
func (p *ProgressTracker) Fail(ctx context.Context, uploadID string, cause error) {
	p.set(ctx, Progress{UploadID: uploadID, Phase: PhaseFailed, Error: cause.Error()})
}

// Get returns the progress of an upload.
func (p *ProgressTracker) Get(ctx context.Context, uploadID string) (*Progress, error) {
	data, err := p.client.Get(ctx, progressKey(uploadID)).Bytes()
	if err == redis.Nil {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s: %w", uploadID, err)
	}
	var prog Progress
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, fmt.Errorf("decode progress %s: %w", uploadID, err)
	}
	return &prog, nil
}
