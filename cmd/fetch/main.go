package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sigmaband/internal/di"
	"sigmaband/pkg/config"
)

// One-shot snapshot refresh, meant to run from a daily scheduler. A failed
// fetch leaves the previous snapshot untouched and exits non-zero.
func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s index=%s vol=%s lookback=%dd",
		cfg.Environment, cfg.Data.IndexSymbol, cfg.Data.VolSymbol, cfg.Data.LookbackDays)

	refresher, err := di.InitializeRefresher(cfg)
	if err != nil {
		log.Fatalf("refresher initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := refresher.Run(ctx)
	if err != nil {
		log.Printf("fetch failed: %v", err)
		os.Exit(1)
	}

	log.Printf("snapshot written: %d observations, latest %s -> %s",
		len(snap.Observations),
		snap.Observations[len(snap.Observations)-1].Date,
		cfg.Data.SnapshotPath)
}
