package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/api"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/config"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/ingest"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/pkg/distlock"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/repository/postgres"
	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/service/shop"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("database.url is required (or set DATABASE_URL)")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatalf("ping database: %v", err)
	}
	cancel()

	repo := postgres.NewShopRepo(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	shopSvc := shop.NewService(repo)

	var redisClient *redis.Client
	var tracker *ingest.ProgressTracker
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		tracker = ingest.NewProgressTracker(redisClient)
		log.Printf("upload progress tracking enabled (redis %s)", cfg.Redis.Addr)
	}

	ingester := ingest.NewIngester(shopSvc, tracker)

	var watcher *ingest.Watcher
	if cfg.Watcher.Enabled {
		lock := distlock.New(redisClient, db, "shopimport:watcher", 2*cfg.Watcher.Interval())
		watcher, err = ingest.NewWatcher(ingester, ingest.WatcherConfig{
			Bucket:     cfg.Watcher.S3Bucket,
			Region:     cfg.Watcher.S3Region,
			AWSProfile: cfg.Watcher.AWSProfile,
			Interval:   cfg.Watcher.Interval(),
		}, lock)
		if err != nil {
			log.Fatalf("init S3 watcher: %v", err)
		}
		watcher.Start()
		log.Printf("S3 watcher enabled (bucket %s, every %s)", cfg.Watcher.S3Bucket, cfg.Watcher.Interval())
	}

	handlers := api.NewHandlers(shopSvc, ingester, tracker)
	if watcher != nil {
		handlers.SetWatcher(watcher)
	}
	server := api.NewServer(cfg.Server, handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	if watcher != nil {
		watcher.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
