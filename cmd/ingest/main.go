// Command ingest runs the pipeline from the terminal: scrape the upstream
// listing into a batch snapshot and ingest it, or replay snapshots already
// on disk. It prints the ingestion summary and exits non-zero on failure.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/akratos/go-actions-backend/internal/batch"
	"github.com/akratos/go-actions-backend/internal/config"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/scrape"
	"github.com/akratos/go-actions-backend/internal/services"
	"github.com/akratos/go-actions-backend/internal/sysutil"
)

func main() {
	var (
		fetch  = flag.Bool("fetch", false, "scrape the upstream listing before ingesting")
		all    = flag.Bool("all", false, "ingest every batch snapshot instead of only the latest")
		qaOnly = flag.Bool("qa", false, "print the data quality report for the latest batch and exit")
		pretty = flag.Bool("pretty", true, "human-readable log output")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	pipe := &services.PipelineService{
		Fetcher: scrape.New(cfg.Scrape.BaseURL,
			scrape.WithMaxPages(cfg.Scrape.MaxPages),
			scrape.WithHTTPClient(&http.Client{Timeout: cfg.Scrape.Timeout}),
		),
		DataDir: cfg.DataDir,
		Ingest: &services.IngestService{
			DB:          db,
			MaxAttempts: cfg.Ingest.MaxAttempts,
			RetryDelay:  cfg.Ingest.RetryDelay,
		},
		Source: batch.NewDirSource(cfg.DataDir),
	}

	ctx := context.Background()

	if *qaOnly {
		report, err := pipe.InspectLatest()
		if err != nil {
			log.Fatal().Err(err).Msg("qa report failed")
		}
		printJSON(report)
		return
	}

	var sum *services.Summary
	switch {
	case *fetch:
		sum, err = pipe.Refresh(ctx)
	case *all:
		sum, err = pipe.LoadAll(ctx)
	default:
		sum, err = pipe.LoadLatest(ctx)
	}
	if sum != nil {
		printJSON(sum)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}

	log.Info().
		Int("inserted", sum.Inserted).
		Int("duplicates_skipped", sum.DuplicatesSkipped).
		Int("validation_rejected", sum.ValidationRejected).
		Msg("ingestion complete")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
