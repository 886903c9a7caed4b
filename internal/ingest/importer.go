package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/service/shop"
)

// Outcome is the per-batch result envelope the ingestion collaborator hands
// back to its caller. Already-applied per-shop merges are never rolled back
// on failure; merges are idempotent and a retried file converges.
type Outcome struct {
	Status      string `json:"status"` // "Success" or "Failed"
	Error       string `json:"error,omitempty"`
	RowsRead    int    `json:"rowsRead"`
	RowsSkipped int    `json:"rowsSkipped"`
	TotalShops  int    `json:"totalShops"`
	Inserted    int    `json:"inserted"`
	Updated     int    `json:"updated"`
}

// Ingester reads CSV batches, groups rows per shop, and applies them
// through the shop service.
type Ingester struct {
	svc      *shop.Service
	progress *ProgressTracker
}

// NewIngester creates an importer. progress may be nil when no tracking is
// wanted (e.g. the S3 watcher path).
func NewIngester(svc *shop.Service, progress *ProgressTracker) *Ingester {
	return &Ingester{svc: svc, progress: progress}
}

// progressEvery controls how often row progress is pushed to redis.
const progressEvery = 500

// ImportFromReader reads a CSV stream, normalizes rows, groups them per
// shop, and merges each shop's batch into its stored record. The evaluation
// order inside one shop is the file order, which keeps dedup tie-breaks
// reproducible.
func (ing *Ingester) ImportFromReader(ctx context.Context, r io.Reader, uploadID string) Outcome {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return Outcome{Status: "Success"}
	}
	if err != nil {
		return ing.failed(ctx, uploadID, fmt.Errorf("read header: %w", err))
	}

	mapping := MapColumns(header)
	if mapping == nil {
		return ing.failed(ctx, uploadID, fmt.Errorf("no shop domain column detected in header: %v", header))
	}

	var out Outcome
	batches := make(map[string]*shop.Batch)
	for {
		if ctx.Err() != nil {
			return ing.failed(ctx, uploadID, ctx.Err())
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.RowsSkipped++
			continue
		}
		out.RowsRead++

		row, ok := NormalizeRow(record, mapping)
		if !ok {
			out.RowsSkipped++
			continue
		}

		b, exists := batches[row.Domain]
		if !exists {
			b = &shop.Batch{}
			batches[row.Domain] = b
		}
		b.Events = append(b.Events, row.Event)
		overlayInfo(&b.Info, row.Info)

		if ing.progress != nil && out.RowsRead%progressEvery == 0 {
			ing.progress.Update(ctx, uploadID, PhaseReading, out.RowsRead, out.RowsSkipped)
		}
	}

	if ing.progress != nil {
		ing.progress.Update(ctx, uploadID, PhaseMerging, out.RowsRead, out.RowsSkipped)
	}

	sum, err := ing.svc.Ingest(ctx, batches)
	out.TotalShops = sum.TotalShops
	out.Inserted = sum.Inserted
	out.Updated = sum.Updated
	if err != nil {
		return ing.failed(ctx, uploadID, err, out)
	}

	out.Status = "Success"
	if ing.progress != nil {
		ing.progress.Complete(ctx, uploadID, out)
	}
	return out
}

func (ing *Ingester) failed(ctx context.Context, uploadID string, err error, partial ...Outcome) Outcome {
	out := Outcome{}
	if len(partial) > 0 {
		out = partial[0]
	}
	out.Status = "Failed"
	out.Error = err.Error()
	if ing.progress != nil {
		ing.progress.Fail(ctx, uploadID, err)
	}
	return out
}

// overlayInfo keeps the last non-empty descriptive value seen in the file,
// matching the merge semantics applied against the stored record.
func overlayInfo(dst *domain.ShopInfo, src domain.ShopInfo) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Country != "" {
		dst.Country = src.Country
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
}

// stripBOM removes a UTF-8 byte order mark so the first header cell maps
// cleanly.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		br.Discard(3)
	}
	return br
}
