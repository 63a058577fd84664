package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"carscout/config"
	"carscout/models"
	"carscout/utils"
)

// pdkEntryID marks the catalog entry for PDK transmission equipment. It is
// tracked for valuation but hidden from the human-facing label list, and it
// is force-detected on 2009-2012 automatics whose scraped text never mentions
// the option.
const pdkEntryID = "250"

// pdkYearMin/Max bound the model generation whose automatics are always PDK.
const (
	pdkYearMin = 2009
	pdkYearMax = 2012
)

// catalogEntry is one compiled, immutable option feature.
type catalogEntry struct {
	id         string
	display    string
	valueUSD   int
	aliasCodes []string
	standardOn []string
	patterns   []*regexp.Regexp
	showInView bool
}

// legacyEntry is one compiled keyword of the legacy top-5 detector.
type legacyEntry struct {
	label    string
	patterns []*regexp.Regexp
}

// OptionsEngine detects option presence on Listings. The detection strategy
// (catalog, legacy keyword list, or none) is resolved once at construction.
type OptionsEngine struct {
	logger  *utils.Logger
	engine  string
	catalog []catalogEntry
	legacy  []legacyEntry
}

// NewOptionsEngine compiles the configured strategy. Malformed patterns are
// skipped; an entry with zero valid patterns still participates in the
// structural rules but never matches by text.
func NewOptionsEngine(cfg config.OptionsConfig, logger *utils.Logger) *OptionsEngine {
	e := &OptionsEngine{logger: logger, engine: cfg.Engine}
	switch cfg.Engine {
	case "catalog":
		e.catalog = compileCatalog(cfg.Catalog, logger)
	case "legacy":
		e.legacy = compileLegacy(cfg.Top5, logger)
	}
	return e
}

// Run populates option codes, display labels, dollar totals, and the legacy
// mirrors on every Listing. No-op when the engine is disabled.
func (e *OptionsEngine) Run(listings []*models.Listing) {
	switch e.engine {
	case "catalog":
		for _, l := range listings {
			e.detectCatalog(l)
		}
		e.logger.Info("[options] Catalog detection done — %d listings", len(listings))
	case "legacy":
		for _, l := range listings {
			e.detectLegacy(l)
		}
		e.logger.Info("[options] Legacy top-5 detection done — %d listings", len(listings))
	}
}

func compileCatalog(entries []config.CatalogEntryConfig, logger *utils.Logger) []catalogEntry {
	compiled := make([]catalogEntry, 0, len(entries))
	for _, item := range entries {
		display := item.Display
		if display == "" {
			display = item.ID
		}
		ent := catalogEntry{
			id:         item.ID,
			display:    display,
			valueUSD:   item.ValueUSD,
			aliasCodes: item.CodesAlias,
			standardOn: item.StandardOn,
			showInView: item.ID != pdkEntryID,
		}
		for _, pat := range item.Synonyms {
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				logger.Warn("[options] Skipping malformed pattern %q on entry %s: %v", pat, item.ID, err)
				continue
			}
			ent.patterns = append(ent.patterns, re)
		}
		compiled = append(compiled, ent)
	}

	// Deterministic catalog order: value desc, then display asc.
	sort.SliceStable(compiled, func(i, j int) bool {
		if compiled[i].valueUSD != compiled[j].valueUSD {
			return compiled[i].valueUSD > compiled[j].valueUSD
		}
		return strings.ToLower(compiled[i].display) < strings.ToLower(compiled[j].display)
	})
	return compiled
}

func compileLegacy(top5 map[string][]string, logger *utils.Logger) []legacyEntry {
	labels := make([]string, 0, len(top5))
	for label := range top5 {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	compiled := make([]legacyEntry, 0, len(labels))
	for _, label := range labels {
		ent := legacyEntry{label: label}
		for _, pat := range top5[label] {
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				logger.Warn("[options] Skipping malformed pattern %q for %q: %v", pat, label, err)
				continue
			}
			ent.patterns = append(ent.patterns, re)
		}
		compiled = append(compiled, ent)
	}
	return compiled
}

// detectCatalog runs the full catalog against one Listing.
func (e *OptionsEngine) detectCatalog(l *models.Listing) {
	haystack := optionHaystack(l.RawOptions)
	modelTrim := strings.ToLower(strings.TrimSpace(l.Model + " " + l.Trim))

	var codes, labels []string
	total := 0

	for i := range e.catalog {
		ent := &e.catalog[i]
		standard := standardOnTrim(ent, modelTrim)

		present := false
		if !standard {
			for _, re := range ent.patterns {
				if re.MatchString(haystack) {
					present = true
					break
				}
			}
		}

		if ent.id == pdkEntryID && isPDKAutomatic(l) {
			present = true
		}

		if !present {
			continue
		}

		codes = append(codes, ent.id)
		codes = append(codes, ent.aliasCodes...)
		if !standard {
			total += ent.valueUSD
		}
		if ent.showInView && !containsString(labels, ent.display) {
			labels = append(labels, ent.display)
		}
	}

	l.OptionCodesPresent = codes
	l.OptionLabelsDisplay = labels
	l.OptionValueUSDTotal = &total

	l.Top5OptionsPresent = append([]string(nil), labels...)
	l.Top5OptionsCount = len(labels)
}

// detectLegacy runs the keyword list. It fills only the label fields; dollar
// totals stay unset so the fair-value model falls back to its per-option
// constant.
func (e *OptionsEngine) detectLegacy(l *models.Listing) {
	haystack := optionHaystack(l.RawOptions)

	var labels []string
	for _, ent := range e.legacy {
		for _, re := range ent.patterns {
			if re.MatchString(haystack) {
				labels = append(labels, ent.label)
				break
			}
		}
	}

	l.Top5OptionsPresent = labels
	l.Top5OptionsCount = len(labels)
}

// standardOnTrim reports whether the entry ships standard on this Listing's
// trim, in which case it is excluded from valuation and display. Names match
// as whole phrases so a short name never hits the middle of a model word.
func standardOnTrim(ent *catalogEntry, modelTrim string) bool {
	if modelTrim == "" {
		return false
	}
	padded := " " + modelTrim + " "
	for _, s := range ent.standardOn {
		if s = strings.ToLower(strings.TrimSpace(s)); s == "" {
			continue
		}
		if strings.Contains(padded, " "+s+" ") {
			return true
		}
	}
	return false
}

// isPDKAutomatic captures a model-generation fact not reliably present in
// scraped text: every 2009-2012 automatic shipped with PDK.
func isPDKAutomatic(l *models.Listing) bool {
	if l.Year == nil || *l.Year < pdkYearMin || *l.Year > pdkYearMax {
		return false
	}
	trans := l.TransmissionNorm
	if trans == "" {
		trans = l.TransmissionRaw
	}
	return strings.EqualFold(strings.TrimSpace(trans), "automatic")
}

func optionHaystack(rawOptions []string) string {
	parts := make([]string, 0, len(rawOptions))
	for _, o := range rawOptions {
		parts = append(parts, strings.TrimSpace(o))
	}
	return strings.Join(parts, "\n")
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
