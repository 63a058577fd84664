package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"carscout/config"
	"carscout/models"
	"carscout/utils"
)

// baselineYear anchors the linear year step: every model year above it adds
// one configured step, years at or below it add nothing.
const baselineYear = 2009

// ValuationResult reports the outcome of valuing one Listing. A failed record
// keeps its valuation fields unset; the batch always runs to completion.
type ValuationResult struct {
	Listing *models.Listing
	Err     error
}

// Valuer computes the additive fair-value model.
type Valuer struct {
	cfg    config.FairValueConfig
	logger *utils.Logger
}

// NewValuer creates a Valuer with the given dollar parameters.
func NewValuer(cfg config.FairValueConfig, logger *utils.Logger) *Valuer {
	return &Valuer{cfg: cfg, logger: logger}
}

// Run values every Listing in place and returns a per-record result.
func (v *Valuer) Run(listings []*models.Listing) []ValuationResult {
	results := make([]ValuationResult, 0, len(listings))
	failed := 0
	for _, l := range listings {
		err := v.compute(l)
		if err != nil {
			failed++
		}
		results = append(results, ValuationResult{Listing: l, Err: err})
	}
	v.logger.Info("[fairvalue] Valued %d listings (%d failed)", len(listings)-failed, failed)
	return results
}

// compute writes baseline, adjusted price, and deal delta onto the Listing.
// Pure in its inputs: it reads only the Listing's current fields.
func (v *Valuer) compute(l *models.Listing) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fairvalue: %s: %v", l.ListingURL, r)
		}
	}()
	if l == nil {
		return fmt.Errorf("fairvalue: nil listing")
	}

	baseline := v.cfg.BaseValueUSD +
		v.trimPremium(l) +
		v.yearStep(l) +
		v.mileageAdj(l) +
		v.colorAdj(l)
	adjusted := baseline + v.optionsTotal(l)

	l.BaselineAdjPriceUSD = &baseline
	l.AdjPriceUSD = &adjusted

	if l.PriceUSD != nil {
		delta := adjusted - *l.PriceUSD
		l.DealDeltaUSD = &delta
	} else {
		l.DealDeltaUSD = nil
	}
	return nil
}

// trimPremium looks the trim up verbatim, then falls back to a
// case-insensitive whole-phrase match of any premium key against the joined
// "model trim" text, so "Cayman R" keys on combined keys without letting a
// key like "S" hit the middle of "Boxster". No match means Base: premium 0.
func (v *Valuer) trimPremium(l *models.Listing) int {
	trim := strings.TrimSpace(l.Trim)
	if p, ok := v.cfg.TrimPremiums[trim]; ok {
		return p
	}
	modelTrim := " " + strings.ToLower(strings.TrimSpace(l.Model+" "+l.Trim)) + " "
	keys := make([]string, 0, len(v.cfg.TrimPremiums))
	for k := range v.cfg.TrimPremiums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		needle := strings.ToLower(strings.TrimSpace(k))
		if needle != "" && strings.Contains(modelTrim, " "+needle+" ") {
			return v.cfg.TrimPremiums[k]
		}
	}
	return 0
}

func (v *Valuer) yearStep(l *models.Listing) int {
	if l.Year == nil || *l.Year < baselineYear {
		return 0
	}
	return (*l.Year - baselineYear) * v.cfg.YearStepUSD
}

func (v *Valuer) mileageAdj(l *models.Listing) int {
	return v.cfg.MileageBandBonusUSD[valuationBand(l.Mileage)]
}

// valuationBand buckets mileage into the five valuation bands. Missing
// mileage lands in the neutral middle band so it never skews the model.
func valuationBand(m *int) string {
	if m == nil {
		return "60-79k"
	}
	switch {
	case *m < 40000:
		return "<40k"
	case *m < 60000:
		return "40-59k"
	case *m < 80000:
		return "60-79k"
	case *m < 100000:
		return "80-99k"
	default:
		return ">=100k"
	}
}

func (v *Valuer) colorAdj(l *models.Listing) int {
	adj := 0
	if l.ColorExtBucket == "color" {
		adj += v.cfg.ExteriorColorUSD
	}
	if l.ColorIntBucket == "color" {
		adj += v.cfg.InteriorColorUSD
	}
	return adj
}

// optionsTotal prefers the catalog engine's dollar total; when the engine did
// not run it falls back to the legacy per-option constant times the top-5
// count.
func (v *Valuer) optionsTotal(l *models.Listing) int {
	if l.OptionValueUSDTotal != nil {
		return *l.OptionValueUSDTotal
	}
	return v.cfg.PerOptionUSD * l.Top5OptionsCount
}
