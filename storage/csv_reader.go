package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"carscout/models"
	"carscout/utils"
)

// LoadRawAndManual reads the latest raw scrape CSV plus any manually-dropped
// CSVs and returns best-effort coerced records. Unreadable files are logged
// and skipped; ingestion never aborts the run.
func LoadRawAndManual(rawDir, manualDir string, logger *utils.Logger) []models.RawRecord {
	var all []models.RawRecord

	latest := filepath.Join(rawDir, "latest.csv")
	if rows, err := readCSVFile(latest); err != nil {
		logger.Warn("[ingest] Skipping %s: %v", latest, err)
	} else {
		all = append(all, rows...)
	}

	manual, err := filepath.Glob(filepath.Join(manualDir, "*.csv"))
	if err == nil {
		for _, fp := range manual {
			rows, err := readCSVFile(fp)
			if err != nil {
				logger.Warn("[ingest] Skipping manual CSV %s: %v", fp, err)
				continue
			}
			all = append(all, rows...)
		}
	}

	logger.Info("[ingest] Loaded %d raw records (%d manual files)", len(all), len(manual))
	return all
}

func readCSVFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []models.RawRecord
	for {
		fields, err := r.Read()
		if err != nil {
			break
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(fields) {
				row[h] = fields[i]
			}
		}
		records = append(records, CoerceRow(row))
	}
	return records, nil
}

// CoerceRow applies the best-effort coercions the pipeline expects: ints for
// price/mileage/year, a string slice for raw_options, and canonical keys for
// headers that appear with alternate casings.
func CoerceRow(row map[string]string) models.RawRecord {
	rec := make(models.RawRecord, len(row))
	for k, v := range row {
		rec[k] = v
	}

	// Alternate header casings from hand-edited CSVs.
	if v := rec.Str("Transmission"); v != "" && rec.Str("transmission_raw") == "" {
		rec["transmission_raw"] = v
	}
	if v := rec.Str("URL"); v != "" && rec.Str("listing_url") == "" {
		rec["listing_url"] = v
	}
	if v := rec.Str("Source"); v != "" && rec.Str("source") == "" {
		rec["source"] = v
	}

	for _, k := range []string{"price_usd", "mileage", "year"} {
		s := rec.Str(k)
		if s == "" {
			delete(rec, k)
			continue
		}
		if n := utils.ParseInt(s); n != nil {
			rec[k] = *n
		} else {
			delete(rec, k)
		}
	}

	rec["raw_options"] = splitOptions(rec.Str("raw_options"))
	return rec
}

// splitOptions splits a ";"-joined option string, tolerating a bracketed
// "[a; b]" form from spreadsheet exports.
func splitOptions(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = strings.Trim(s, "[]")
	}
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
