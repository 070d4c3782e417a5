package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Ritu28-coder/stock-dashboard/internal/collector"
	"github.com/Ritu28-coder/stock-dashboard/internal/config"
	"github.com/Ritu28-coder/stock-dashboard/internal/ingest"
	"github.com/Ritu28-coder/stock-dashboard/internal/scheduler"
	"github.com/Ritu28-coder/stock-dashboard/internal/store"
	"github.com/Ritu28-coder/stock-dashboard/internal/universe"
	"github.com/Ritu28-coder/stock-dashboard/internal/writer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ingestor starting...")

	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Provider == "alpaca" {
		fetcher = collector.NewAlpacaFetcher(cfg.DataSource.AlpacaKey, cfg.DataSource.AlpacaSecret)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init universe source
	var src universe.Source
	if cfg.Universe.Source == "static" {
		src = universe.NewStaticSource(cfg.Universe.Symbols)
	} else {
		src = universe.NewWikipediaSource(cfg.Universe.URL, cfg.Proxy)
	}
	log.Printf("[INFO] universe source: %s", src.Name())

	// Init store
	var st store.Store
	if cfg.Database.PostgresDSN != "" {
		st, err = store.NewPostgresStore(cfg.Database.PostgresDSN)
	} else {
		st, err = store.NewSQLiteStore(cfg.Database.SQLitePath)
	}
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}
	defer st.Close()

	// Init pipeline
	batch := collector.NewBatchFetcher(fetcher, collector.Options{
		MaxRetries:  cfg.Fetch.MaxRetries,
		BackoffBase: cfg.Fetch.BackoffBase,
		Concurrency: cfg.Fetch.Concurrency,
	})
	pipeline := &ingest.Pipeline{
		Universe: src,
		Batch:    batch,
		Writer:   writer.New(st),
		TopN:     cfg.Fetch.TopN,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, pipeline)
	if err := sched.RegisterAll(cfg.Schedule.MoversCron, cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing movers run now")
		go sched.RunMoversNow()
	}

	log.Println("[INFO] ingestor is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ingestor stopped")
}
