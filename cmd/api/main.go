package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"sec_extractor/pkg/api/companies"
	apiConfig "sec_extractor/pkg/api/config"
	"sec_extractor/pkg/core/config"
	"sec_extractor/pkg/core/logging"
	"sec_extractor/pkg/core/metrics"
	"sec_extractor/pkg/core/pipeline"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to extractor.yaml")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer logger.Sync()

	collector := metrics.NewCollector()

	// The index is loaded completely before any handler is registered; it
	// is read-only from here on.
	orch := pipeline.NewOrchestrator(cfg, logger)
	orch.SetObserver(collector)
	db := orch.NewDB()
	if _, err := orch.LoadAll(context.Background(), db); err != nil {
		logger.Fatal("load failed", zap.Error(err))
	}
	collector.SetIndexSize(db)

	mux := http.NewServeMux()
	companies.NewHandler(db).Register(mux)
	mux.HandleFunc("/api/config", apiConfig.NewHandler(cfg).HandleConfig)
	mux.Handle("/metrics", collector.Handler())

	fmt.Printf("API server starting on %s...\n", cfg.APIAddr)
	fmt.Println("  - GET  /api/companies")
	fmt.Println("  - GET  /api/companies/lookup?name=|id=")
	fmt.Println("  - GET  /api/filings/lookup?id=")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - GET  /metrics")

	if err := http.ListenAndServe(cfg.APIAddr, mux); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
