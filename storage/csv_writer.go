package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"carscout/models"
)

// WriteExport writes full-fidelity rows to path with the preferred column
// ordering followed by any unanticipated columns, alphabetically. The file is
// written to a temp sibling and renamed into place so readers never observe a
// partial run.
func WriteExport(rows []models.ExportRow, path string) error {
	if len(rows) == 0 {
		return nil
	}
	headers := orderedHeaders(rows)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv: close: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("csv: rename into place: %w", err)
	}
	return nil
}

// WriteRaw persists raw records as scraped, before any normalization.
// List-valued fields are joined with "; ".
func WriteRaw(records []models.RawRecord, path string) error {
	rows := make([]models.ExportRow, 0, len(records))
	for _, r := range records {
		row := make(models.ExportRow, len(r))
		for k, v := range r {
			row[k] = rawValueString(v)
		}
		rows = append(rows, row)
	}
	return WriteExport(rows, path)
}

// WriteLatestAlias copies the run's output file to a stable "latest" path.
func WriteLatestAlias(actual, latest string) error {
	src, err := os.Open(actual)
	if err != nil {
		return fmt.Errorf("csv: open %q: %w", actual, err)
	}
	defer src.Close()

	dst, err := os.Create(latest)
	if err != nil {
		return fmt.Errorf("csv: create %q: %w", latest, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("csv: copy latest alias: %w", err)
	}
	return nil
}

// orderedHeaders returns the hint columns present in the rows, then any
// extras in alphabetical order.
func orderedHeaders(rows []models.ExportRow) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}

	headers := make([]string, 0, len(present))
	for _, h := range models.ExportColumnHint {
		if present[h] {
			headers = append(headers, h)
			delete(present, h)
		}
	}
	extras := make([]string, 0, len(present))
	for k := range present {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return append(headers, extras...)
}

func rawValueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, "; ")
	default:
		return fmt.Sprintf("%v", x)
	}
}
