package models

// ExportRow is the full-fidelity projection of a ranked Listing, ready for
// CSV persistence. Keys are canonical column names; list-valued fields are
// already delimiter-joined.
type ExportRow map[string]string

// ExportColumnHint is the preferred CSV column ordering. Columns not in this
// list are appended after it, alphabetically.
var ExportColumnHint = []string{
	"timestamp_run_id",
	"source",
	"listing_url",
	"vin",
	"year",
	"model",
	"trim",
	"transmission_raw",
	"transmission_norm",
	"mileage",
	"price_usd",
	"exterior_color",
	"interior_color",
	"color_ext_bucket",
	"color_int_bucket",
	"raw_options",
	"option_codes_present",
	"option_value_usd_total",
	"top5_options_count",
	"top5_options_present",
	"location",
	"baseline_adj_price_usd",
	"adj_price_usd",
	"deal_delta_usd",
}

// DisplayRow is the compact projection rendered in the terminal deal table.
// All values are pre-formatted strings; the view layer owns the user-facing
// column labels.
type DisplayRow struct {
	DealDelta     string // "+1200" / "-2800" / ""
	Price         string // "$32k"
	Miles         string // "45k"
	YearModelTrim string // "2010 Cayman S" ("Base" trim omitted)
	Transmission  string
	Colors        string // "Black / Sand Beige"
	TopOptions    string // comma-joined display labels
	Source        string
}
