package shop

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/lifecycle"
)

// Batch is one shop's slice of an ingestion run: descriptive info plus the
// raw events found in the uploaded file.
type Batch struct {
	Info   domain.ShopInfo
	Events []domain.ShopEvent
}

// IngestSummary is the stable count summary an ingestion run reports back.
type IngestSummary struct {
	TotalShops int `json:"totalShops"`
	Inserted   int `json:"inserted"`
	Updated    int `json:"updated"`
}

// domainLockCount stripes the per-domain merge mutexes.
const domainLockCount = 64

// Service coordinates merges, enrichment, and queries over shop records.
// All public methods are safe for concurrent use if the underlying
// repository is concurrency-safe.
type Service struct {
	repo  Repository
	locks [domainLockCount]sync.Mutex
}

// NewService creates a shop service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) lockFor(shopDomain string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(shopDomain))
	return &s.locks[h.Sum32()%domainLockCount]
}

// Ingest applies one batch per shop: load the stored record, merge the new
// events into its timeline, overlay descriptive info, and upsert. The
// read-merge-write cycle is serialized per domain so concurrent uploads
// touching the same shop cannot interleave partial writes; merges are
// idempotent, so a retried batch is harmless.
func (s *Service) Ingest(ctx context.Context, batches map[string]*Batch) (IngestSummary, error) {
	var sum IngestSummary
	for shopDomain, batch := range batches {
		created, err := s.ingestOne(ctx, shopDomain, batch)
		if err != nil {
			// Already-applied shops stay applied; report how far we got.
			return sum, fmt.Errorf("ingest %s: %w", shopDomain, err)
		}
		sum.TotalShops++
		if created {
			sum.Inserted++
		} else {
			sum.Updated++
		}
	}
	log.Printf("[shop.Service] ingested batch: %d shops (%d new, %d updated)",
		sum.TotalShops, sum.Inserted, sum.Updated)
	return sum, nil
}

func (s *Service) ingestOne(ctx context.Context, shopDomain string, batch *Batch) (bool, error) {
	mu := s.lockFor(shopDomain)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.repo.Get(ctx, shopDomain)
	if err == ErrNotFound {
		rec = &domain.ShopRecord{Domain: shopDomain}
	} else if err != nil {
		return false, err
	}

	rec.Events = lifecycle.Merge(rec.Events, batch.Events)
	rec.MergeInfo(batch.Info)

	return s.repo.Upsert(ctx, rec)
}

// Get returns one shop enriched at the given evaluation instant.
func (s *Service) Get(ctx context.Context, shopDomain string, now time.Time) (*lifecycle.Summary, error) {
	rec, err := s.repo.Get(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	sum := lifecycle.Summarize(*rec, now)
	return &sum, nil
}

// List loads every record, enriches it, and applies the filter and sort.
func (s *Service) List(ctx context.Context, f lifecycle.Filter, spec lifecycle.SortSpec, now time.Time) ([]lifecycle.Summary, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}

	summaries := make([]lifecycle.Summary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, lifecycle.Summarize(rec, now))
	}
	return lifecycle.Apply(summaries, f, spec), nil
}

// DashboardStats are the simple-sum counts the overview chart renders.
// Clicking a slice filters the table through the same dual-match status
// predicate the dropdown uses.
type DashboardStats struct {
	TotalShops int            `json:"totalShops"`
	ByGroup    map[string]int `json:"byStatusGroup"`
	ByEvent    map[string]int `json:"byCurrentEvent"`
}

// Dashboard aggregates status counts over all shops. Counts need only the
// classification, so records are read straight from the repository without
// the enrichment and sorting the list view does.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats := &DashboardStats{
		TotalShops: len(records),
		ByGroup:    make(map[string]int),
		ByEvent:    make(map[string]int),
	}
	for _, rec := range records {
		cls := lifecycle.Classify(rec.Events)
		stats.ByGroup[string(cls.Group)]++
		stats.ByEvent[cls.CurrentEvent]++
	}
	return stats, nil
}
