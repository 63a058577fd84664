package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"carscout/models"
)

// PostgresWriter persists normalized, valued listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection, runs schema migrations, and returns
// a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                     SERIAL PRIMARY KEY,
			run_id                 VARCHAR(40) NOT NULL,
			source                 VARCHAR(50) NOT NULL DEFAULT '',
			listing_url            TEXT        UNIQUE NOT NULL,
			vin                    VARCHAR(17) NOT NULL DEFAULT '',
			year                   INT,
			model                  TEXT        NOT NULL DEFAULT '',
			trim                   TEXT        NOT NULL DEFAULT '',
			transmission_norm      VARCHAR(10) NOT NULL DEFAULT '',
			transmission_raw       TEXT        NOT NULL DEFAULT '',
			mileage                INT,
			price_usd              INT,
			exterior_color         TEXT        NOT NULL DEFAULT '',
			interior_color         TEXT        NOT NULL DEFAULT '',
			location               TEXT        NOT NULL DEFAULT '',
			top_options            TEXT        NOT NULL DEFAULT '',
			option_value_usd_total INT         NOT NULL DEFAULT 0,
			baseline_adj_price_usd INT,
			adj_price_usd          INT,
			deal_delta_usd         INT,
			created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_vin        ON listings(vin);
		CREATE INDEX IF NOT EXISTS idx_listings_deal_delta ON listings(deal_delta_usd);
		CREATE INDEX IF NOT EXISTS idx_listings_run_id     ON listings(run_id);
	`)
	return err
}

// Clear deletes all stored listings. Each run replaces the previous one.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the listings, clearing the previous run first.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

const insertCols = 20

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertCols)

	for idx, l := range batch {
		base := idx * insertCols
		ph := make([]string, insertCols)
		for i := range ph {
			ph[i] = fmt.Sprintf("$%d", base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			l.RunID, l.Source, l.ListingURL, l.VIN,
			nullInt(l.Year), l.Model, l.Trim,
			l.TransmissionNorm, l.TransmissionRaw,
			nullInt(l.Mileage), nullInt(l.PriceUSD),
			l.ExteriorColor, l.InteriorColor, l.Location,
			strings.Join(l.Top5OptionsPresent, "; "),
			optionValue(l),
			nullInt(l.BaselineAdjPriceUSD), nullInt(l.AdjPriceUSD), nullInt(l.DealDeltaUSD),
			time.Now().UTC(),
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (
			run_id, source, listing_url, vin, year, model, trim,
			transmission_norm, transmission_raw, mileage, price_usd,
			exterior_color, interior_color, location, top_options,
			option_value_usd_total, baseline_adj_price_usd, adj_price_usd,
			deal_delta_usd, created_at
		)
		VALUES %s
		ON CONFLICT (listing_url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

func optionValue(l *models.Listing) int {
	if l.OptionValueUSDTotal == nil {
		return 0
	}
	return *l.OptionValueUSDTotal
}
