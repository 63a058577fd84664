package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"carscout/config"
	"carscout/models"
	"carscout/pipeline"
	"carscout/scraper/carscom"
	"carscout/storage"
	"carscout/utils"
	"carscout/view"
)

func main() {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Config load failed: %v", err)
		os.Exit(1)
	}

	runID := newRunID()
	logger.Info("=== carscout starting — run %s ===", runID)
	logger.Info("Config — years: %d-%d | options engine: %s | scraper: %v",
		cfg.MinYear, cfg.MaxYear, cfg.Options.Engine, cfg.Scraper.Enabled)

	raw := collectRaw(cfg, logger, runID)
	if len(raw) == 0 {
		logger.Error("No raw records to process. Exiting.")
		os.Exit(1)
	}

	// Transform → Dedupe → Options → Fair Value → Rank
	transformer := pipeline.NewTransformer(cfg, logger)
	listings := transformer.Run(raw, runID)

	listings = pipeline.Dedupe(listings, logger)

	engine := pipeline.NewOptionsEngine(cfg.Options, logger)
	engine.Run(listings)

	valuer := pipeline.NewValuer(cfg.FairValue, logger)
	for _, res := range valuer.Run(listings) {
		if res.Err != nil {
			logger.Warn("Valuation skipped for %s: %v", res.Listing.ListingURL, res.Err)
		}
	}

	exportRows, displayRows := pipeline.Rank(listings)

	// Persist normalized output and alias the latest run.
	normOut := filepath.Join(cfg.Output.NormalizedDir,
		fmt.Sprintf("run_%s_n%03d.csv", runID, len(exportRows)))
	if err := storage.WriteExport(exportRows, normOut); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		latest := filepath.Join(cfg.Output.NormalizedDir, "latest.csv")
		if err := storage.WriteLatestAlias(normOut, latest); err != nil {
			logger.Error("Latest alias failed: %v", err)
		}
		logger.Info("Normalized listings saved to %s", normOut)
	}

	if cfg.Postgres.Enabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.Postgres.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			defer pgWriter.Close()
			if err := pgWriter.Write(listings); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Listings stored in PostgreSQL (table: listings)")
			}
		}
	}

	view.PrintDealTable(displayRows)
	view.PrintMarketSummary(pipeline.GroupMedians(listings))
}

// collectRaw either scrapes fresh detail pages or re-reads the cached latest
// raw CSV, then merges in any manually-dropped CSVs.
func collectRaw(cfg *config.Config, logger *utils.Logger, runID string) []models.RawRecord {
	if !cfg.UseCached && cfg.Scraper.Enabled {
		s := carscom.New(cfg, logger)
		scraped, err := s.Scrape(cfg.SearchURLs)
		if err != nil {
			logger.Error("Scrape failed: %v", err)
		}
		if len(scraped) > 0 {
			rawOut := filepath.Join(cfg.Output.RawDir,
				fmt.Sprintf("scrape_%s_n%03d.csv", runID, len(scraped)))
			if err := storage.WriteRaw(scraped, rawOut); err != nil {
				logger.Error("Raw CSV write failed: %v", err)
			} else {
				latest := filepath.Join(cfg.Output.RawDir, "latest.csv")
				if err := storage.WriteLatestAlias(rawOut, latest); err != nil {
					logger.Error("Raw latest alias failed: %v", err)
				}
				logger.Info("Raw scrape saved to %s", rawOut)
			}
		}
	} else {
		logger.Info("Using cached raw data from %s", cfg.Output.RawDir)
	}

	return storage.LoadRawAndManual(cfg.Output.RawDir, cfg.Output.ManualDir, logger)
}

// newRunID stamps each run with a sortable timestamp plus a short random
// suffix so two runs in the same second stay distinguishable.
func newRunID() string {
	return time.Now().UTC().Format("20060102_150405") + "_" + uuid.NewString()[:8]
}
