package models

// RawRecord is one scraped or manually-entered listing before normalization.
// Keys are canonical snake_case field names; values carry whatever the
// ingestion layer managed to coerce (ints for year/price/mileage, a string or
// []string for raw_options).
type RawRecord map[string]any

// Str returns the string value for key, or "" when absent or not a string.
func (r RawRecord) Str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the int value for key, or nil when absent.
func (r RawRecord) Int(key string) *int {
	switch v := r[key].(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

// Listing is one normalized vehicle-for-sale observation. It is constructed
// once by the transform stage; later stages only fill in derived fields.
// Optional integers are pointers so "unknown" stays distinguishable from zero.
type Listing struct {
	RunID      string
	Source     string
	ListingURL string
	VIN        string

	Year  *int
	Model string
	Trim  string

	TransmissionRaw  string
	TransmissionNorm string // "Manual", "Automatic", or "" when unknown

	Mileage  *int
	PriceUSD *int

	ExteriorColor  string
	InteriorColor  string
	ColorExtBucket string // "color" or "mono"
	ColorIntBucket string

	RawOptions []string

	// Filled by the options engine.
	OptionCodesPresent  []string
	OptionLabelsDisplay []string
	OptionValueUSDTotal *int

	// Legacy mirrors of the display labels; always populated by whichever
	// detection strategy ran, so downstream readers can rely on them.
	Top5OptionsPresent []string
	Top5OptionsCount   int

	Location string

	// Filled by the fair-value model.
	BaselineAdjPriceUSD *int
	AdjPriceUSD         *int
	DealDeltaUSD        *int
}

// completenessFields are the identity/descriptive fields counted by
// CompletenessScore, the dedupe tie-break.
var completenessFields = []func(*Listing) bool{
	func(l *Listing) bool { return l.VIN != "" },
	func(l *Listing) bool { return l.PriceUSD != nil },
	func(l *Listing) bool { return l.Mileage != nil },
	func(l *Listing) bool { return l.Year != nil },
	func(l *Listing) bool { return l.Model != "" },
	func(l *Listing) bool { return l.Trim != "" },
	func(l *Listing) bool { return l.ExteriorColor != "" },
	func(l *Listing) bool { return l.InteriorColor != "" },
	func(l *Listing) bool { return l.Location != "" },
}

// CompletenessScore counts how many identity/descriptive fields are present.
func CompletenessScore(l *Listing) int {
	score := 0
	for _, present := range completenessFields {
		if present(l) {
			score++
		}
	}
	return score
}
