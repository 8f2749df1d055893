package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"sec_extractor/pkg/core/config"
	"sec_extractor/pkg/core/logging"
	"sec_extractor/pkg/core/pipeline"
	"sec_extractor/pkg/core/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to extractor.yaml")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database unavailable", zap.Error(err))
		}
		defer pool.Close()
		if err := store.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}
	}

	exports, err := store.NewExportStore(pool, cfg.OutputDir)
	if err != nil {
		logger.Fatal("export store unavailable", zap.Error(err))
	}

	orch := pipeline.NewOrchestrator(cfg, logger)
	orch.SetExporter(exports)

	res, err := orch.Run(ctx)
	if err != nil {
		logger.Fatal("extraction failed", zap.Error(err))
	}

	fmt.Printf("\n=== Run %s: loaded %d data sets ===\n", res.RunID, len(res.Loads))
	for _, l := range res.Loads {
		s := l.Stats
		fmt.Printf("%-10s %8d filings %10d records %10d unclaimed %6d unknown\n",
			l.Source.Name, s.FilingsRegistered, s.RecordsAdded, s.SkippedUnclaimed, s.SkippedUnknownFiling)
	}
	fmt.Printf("Companies: %d  Filings: %d\n", res.DB.Len(), res.DB.FilingCount())
	fmt.Printf("Exported %d companies to %s\n", res.Exported, exports.Dir())
	for _, name := range res.Missing {
		fmt.Printf("  not found: %s\n", name)
	}
}
