package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"sigmaband/internal/di"
	"sigmaband/pkg/config"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d snapshot=%s", cfg.Environment, cfg.Server.Port, cfg.Data.SnapshotPath)

	app, err := di.InitializeServer(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
