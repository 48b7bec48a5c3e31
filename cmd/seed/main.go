package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/damon-houk/card-transaction-service/internal/infrastructure/config"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/db"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/seed"
)

// Loads clients and cards into the configured store.
// Usage: go run ./cmd/seed -file seed.yaml [-config config.yaml]
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	seedPath := flag.String("file", "seed.yaml", "path to the seed file")
	flag.Parse()

	if err := run(*configPath, *seedPath); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, seedPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.NewJSONLogger(os.Stdout, level)

	f, err := os.Open(seedPath)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	doc, err := seed.Load(f)
	if err != nil {
		return err
	}

	storage, err := db.Open(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer storage.Close()

	res, err := seed.Apply(context.Background(), doc, storage.Clients, storage.Cards)
	if err != nil {
		return err
	}

	log.Info("Seed applied", map[string]interface{}{
		"clients": res.Clients,
		"cards":   res.Cards,
		"file":    seedPath,
	})
	return nil
}
