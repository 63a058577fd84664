package pipeline

import (
	"regexp"
	"strings"

	"carscout/config"
	"carscout/models"
	"carscout/utils"
)

var (
	// manualRegexp is checked first so "6-speed manual" never falls through
	// to the automatic patterns.
	manualRegexp = regexp.MustCompile(`(?i)\b(manual|6[-\s]?speed|6\s*spd|6spd|6mt)\b`)
	// autoRegexp covers PDK / dual-clutch / Tiptronic wording.
	autoRegexp = regexp.MustCompile(`(?i)\b(pdk|doppelkupplung|tiptronic|automatic|auto|a/?t)\b`)
	// sevenSpeedRegexp: a bare "7-speed" is an automatic unless "manual" appears.
	sevenSpeedRegexp = regexp.MustCompile(`(?i)\b7[-\s]?speed\b`)
)

// Transformer turns raw records into canonical Listings.
type Transformer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewTransformer creates a Transformer with the given config and logger.
func NewTransformer(cfg *config.Config, logger *utils.Logger) *Transformer {
	return &Transformer{cfg: cfg, logger: logger}
}

// Run maps each raw record to zero or one Listing. Records whose year falls
// outside the configured inclusive range are dropped here and nowhere else.
func (t *Transformer) Run(raw []models.RawRecord, runID string) []*models.Listing {
	out := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		year := r.Int("year")
		if year != nil && (*year < t.cfg.MinYear || *year > t.cfg.MaxYear) {
			t.logger.Debug("[transform] Dropping %s: year %d outside [%d, %d]",
				r.Str("listing_url"), *year, t.cfg.MinYear, t.cfg.MaxYear)
			continue
		}

		transRaw := r.Str("transmission_raw")
		ext := r.Str("exterior_color")
		intr := r.Str("interior_color")

		l := &models.Listing{
			RunID:            runID,
			Source:           r.Str("source"),
			ListingURL:       r.Str("listing_url"),
			VIN:              r.Str("vin"),
			Year:             year,
			Model:            r.Str("model"),
			Trim:             NormalizeTrim(r.Str("trim")),
			TransmissionRaw:  transRaw,
			TransmissionNorm: NormalizeTransmission(transRaw),
			Mileage:          r.Int("mileage"),
			PriceUSD:         r.Int("price_usd"),
			ExteriorColor:    ext,
			InteriorColor:    intr,
			ColorExtBucket:   colorBucket(ext),
			ColorIntBucket:   colorBucket(intr),
			RawOptions:       coerceOptions(r["raw_options"]),
			Location:         r.Str("location"),
		}

		out = append(out, l)
	}

	t.logger.Info("[transform] %d raw records → %d listings (dropped %d)",
		len(raw), len(out), len(raw)-len(out))
	return out
}

// NormalizeTransmission maps free text to "Manual", "Automatic", or "".
// The raw text is always preserved on the Listing.
func NormalizeTransmission(raw string) string {
	if manualRegexp.MatchString(raw) {
		return "Manual"
	}
	if autoRegexp.MatchString(raw) {
		return "Automatic"
	}
	if sevenSpeedRegexp.MatchString(raw) && !strings.Contains(strings.ToLower(raw), "manual") {
		return "Automatic"
	}
	return ""
}

// NormalizeTrim uppercases a bare "s" token; everything else passes through.
func NormalizeTrim(trim string) string {
	t := strings.TrimSpace(trim)
	if strings.EqualFold(t, "s") {
		return "S"
	}
	return t
}

// colorBucket buckets a color name into "mono" or "color".
func colorBucket(name string) string {
	if utils.IsMono(name) {
		return "mono"
	}
	return "color"
}

// coerceOptions accepts an already-split option list or a semicolon-joined
// string (manual CSVs), trimming whitespace and dropping empty segments.
func coerceOptions(v any) []string {
	switch opts := v.(type) {
	case []string:
		return cleanOptions(opts)
	case []any:
		parts := make([]string, 0, len(opts))
		for _, o := range opts {
			if s, ok := o.(string); ok {
				parts = append(parts, s)
			}
		}
		return cleanOptions(parts)
	case string:
		return cleanOptions(strings.Split(opts, ";"))
	}
	return nil
}

func cleanOptions(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
