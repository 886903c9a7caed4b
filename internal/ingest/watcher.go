package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/pkg/distlock"
)

// WatcherConfig holds S3 drop-folder settings.
type WatcherConfig struct {
	Bucket     string
	Region     string
	AWSProfile string
	Interval   time.Duration
}

// Watcher polls an S3 bucket for dropped CSV exports, imports each new file
// through the ingester, and moves it under processed/ so it is only
// imported once. Partner systems upload lifecycle exports here on their own
// schedule.
type Watcher struct {
	s3Client  *s3.Client
	ingester  *Ingester
	bucket    string
	interval  time.Duration
	lock      distlock.Lock
	ctx       context.Context
	cancel    context.CancelFunc
	running   int32

	mu        sync.Mutex // guards lastRunAt and healthy against the poll goroutine
	lastRunAt time.Time
	healthy   bool
}

// NewWatcher builds an S3 watcher from shared AWS config. A non-nil lock
// keeps replicas from polling the same bucket concurrently; pass nil for a
// single-instance deployment.
func NewWatcher(ing *Ingester, cfg WatcherConfig, lock distlock.Lock) (*Watcher, error) {
	ctx := context.Background()

	var awsCfg aws.Config
	var err error
	if cfg.AWSProfile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithSharedConfigProfile(cfg.AWSProfile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Watcher{
		s3Client: s3.NewFromConfig(awsCfg),
		ingester: ing,
		bucket:   cfg.Bucket,
		interval: interval,
		lock:     lock,
		healthy:  true,
	}, nil
}

// Start launches the poll loop.
func (w *Watcher) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go func() {
		w.runOnce()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runOnce()
			}
		}
	}()
}

// Stop cancels the poll loop.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

// ManualTrigger runs a single poll cycle immediately.
func (w *Watcher) ManualTrigger() {
	go w.runOnce()
}

func (w *Watcher) IsHealthy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.healthy
}

func (w *Watcher) LastRunAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRunAt
}

func (w *Watcher) IsRunning() bool { return atomic.LoadInt32(&w.running) == 1 }

func (w *Watcher) markRun() {
	w.mu.Lock()
	w.lastRunAt = time.Now()
	w.healthy = true
	w.mu.Unlock()
}

func (w *Watcher) setUnhealthy() {
	w.mu.Lock()
	w.healthy = false
	w.mu.Unlock()
}

func (w *Watcher) runOnce() {
	if !atomic.CompareAndSwapInt32(&w.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&w.running, 0)

	ctx := w.ctx
	if ctx == nil {
		// Manual trigger before Start.
		ctx = context.Background()
	}
	if w.lock != nil {
		ok, err := w.lock.Acquire(ctx)
		if err != nil {
			log.Printf("[ingest] acquire watcher lock: %v", err)
			return
		}
		if !ok {
			// Another replica owns this cycle.
			return
		}
		defer w.lock.Release(ctx)
	}

	w.markRun()

	paginator := s3.NewListObjectsV2Paginator(w.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(w.bucket),
	})

	for paginator.HasMorePages() {
		if ctx.Err() != nil {
			return
		}
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.Printf("[ingest] list S3 objects: %v", err)
			w.setUnhealthy()
			return
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if obj.Size == nil || *obj.Size == 0 {
				continue
			}
			if strings.HasPrefix(key, "processed/") {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(key), ".csv") {
				continue
			}
			w.processFile(ctx, key)
		}
	}
}

func (w *Watcher) processFile(ctx context.Context, key string) {
	resp, err := w.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("[ingest] get %s: %v", key, err)
		w.setUnhealthy()
		return
	}
	defer resp.Body.Close()

	out := w.ingester.ImportFromReader(ctx, resp.Body, "s3:"+key)
	if out.Status != "Success" {
		log.Printf("[ingest] import %s failed: %s", key, out.Error)
		w.setUnhealthy()
		return
	}

	log.Printf("[ingest] imported %s: %d rows (%d skipped), %d shops (%d new, %d updated)",
		key, out.RowsRead, out.RowsSkipped, out.TotalShops, out.Inserted, out.Updated)

	w.archive(ctx, key)
}

// archive moves a processed file under processed/ via copy+delete; S3 has
// no rename.
func (w *Watcher) archive(ctx context.Context, key string) {
	dest := "processed/" + key
	_, err := w.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(w.bucket),
		CopySource: aws.String(w.bucket + "/" + key),
		Key:        aws.String(dest),
	})
	if err != nil {
		log.Printf("[ingest] copy %s -> %s: %v", key, dest, err)
		return
	}
	_, err = w.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("[ingest] delete %s after archive: %v", key, err)
	}
}
