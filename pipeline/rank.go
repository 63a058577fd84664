package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"carscout/models"
	"carscout/utils"
)

// worstSortValue pushes listings with a missing delta or price to the end of
// their transmission group.
const worstSortValue = 1 << 60

// Rank orders listings by deal quality and projects each into the
// full-fidelity export row and the compact display row. The input slice is
// not modified.
func Rank(listings []*models.Listing) ([]models.ExportRow, []models.DisplayRow) {
	ranked := append([]*models.Listing(nil), listings...)

	sort.SliceStable(ranked, func(i, j int) bool {
		gi, gj := transGroup(ranked[i]), transGroup(ranked[j])
		if gi != gj {
			return gi < gj
		}
		di, dj := sortDelta(ranked[i]), sortDelta(ranked[j])
		if di != dj {
			return di < dj
		}
		return sortPrice(ranked[i]) < sortPrice(ranked[j])
	})

	exportRows := make([]models.ExportRow, 0, len(ranked))
	displayRows := make([]models.DisplayRow, 0, len(ranked))
	for _, l := range ranked {
		exportRows = append(exportRows, exportRow(l))
		displayRows = append(displayRows, displayRow(l))
	}
	return exportRows, displayRows
}

// transGroup: Automatic group sorts before Manual; unknown groups with Manual.
func transGroup(l *models.Listing) int {
	if strings.EqualFold(l.TransmissionNorm, "automatic") {
		return 0
	}
	return 1
}

// sortDelta inverts the delta so higher deltas sort first within a group.
func sortDelta(l *models.Listing) int {
	if l.DealDeltaUSD == nil {
		return worstSortValue
	}
	return -*l.DealDeltaUSD
}

func sortPrice(l *models.Listing) int {
	if l.PriceUSD == nil {
		return worstSortValue
	}
	return *l.PriceUSD
}

func exportRow(l *models.Listing) models.ExportRow {
	return models.ExportRow{
		"timestamp_run_id":       l.RunID,
		"source":                 l.Source,
		"listing_url":            l.ListingURL,
		"vin":                    l.VIN,
		"year":                   intStr(l.Year),
		"model":                  l.Model,
		"trim":                   l.Trim,
		"transmission_raw":       l.TransmissionRaw,
		"transmission_norm":      l.TransmissionNorm,
		"mileage":                intStr(l.Mileage),
		"price_usd":              intStr(l.PriceUSD),
		"exterior_color":         l.ExteriorColor,
		"interior_color":         l.InteriorColor,
		"color_ext_bucket":       l.ColorExtBucket,
		"color_int_bucket":       l.ColorIntBucket,
		"raw_options":            strings.Join(l.RawOptions, "; "),
		"option_codes_present":   strings.Join(l.OptionCodesPresent, ";"),
		"option_value_usd_total": strconv.Itoa(optionValueOrZero(l)),
		"top5_options_count":     strconv.Itoa(l.Top5OptionsCount),
		"top5_options_present":   strings.Join(l.Top5OptionsPresent, "; "),
		"location":               l.Location,
		"baseline_adj_price_usd": intStr(l.BaselineAdjPriceUSD),
		"adj_price_usd":          intStr(l.AdjPriceUSD),
		"deal_delta_usd":         intStr(l.DealDeltaUSD),
	}
}

func displayRow(l *models.Listing) models.DisplayRow {
	row := models.DisplayRow{
		YearModelTrim: yearModelTrim(l),
		Transmission:  transmissionLabel(l),
		Colors:        l.ExteriorColor + " / " + l.InteriorColor,
		TopOptions:    strings.Join(topOptionLabels(l), ", "),
		Source:        l.Source,
	}
	if l.DealDeltaUSD != nil {
		if *l.DealDeltaUSD >= 0 {
			row.DealDelta = "+" + strconv.Itoa(*l.DealDeltaUSD)
		} else {
			row.DealDelta = strconv.Itoa(*l.DealDeltaUSD)
		}
	}
	if l.PriceUSD != nil {
		row.Price = "$" + utils.RoundUp1k(*l.PriceUSD)
	}
	if l.Mileage != nil {
		row.Miles = utils.RoundUp1k(*l.Mileage)
	}
	return row
}

// yearModelTrim builds the combined label, hiding a "Base" or empty trim.
func yearModelTrim(l *models.Listing) string {
	parts := make([]string, 0, 3)
	if l.Year != nil {
		parts = append(parts, strconv.Itoa(*l.Year))
	}
	if m := strings.TrimSpace(l.Model); m != "" {
		parts = append(parts, m)
	}
	if t := strings.TrimSpace(l.Trim); t != "" && !strings.EqualFold(t, "base") {
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}

func transmissionLabel(l *models.Listing) string {
	if l.TransmissionNorm != "" {
		return l.TransmissionNorm
	}
	return l.TransmissionRaw
}

// topOptionLabels prefers the catalog display labels and falls back to the
// legacy label list when the catalog engine produced none.
func topOptionLabels(l *models.Listing) []string {
	if len(l.OptionLabelsDisplay) > 0 {
		return l.OptionLabelsDisplay
	}
	return l.Top5OptionsPresent
}

func intStr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optionValueOrZero(l *models.Listing) int {
	if l.OptionValueUSDTotal == nil {
		return 0
	}
	return *l.OptionValueUSDTotal
}
