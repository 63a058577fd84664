package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestCompletenessScore(t *testing.T) {
	empty := &Listing{}
	assert.Equal(t, 0, CompletenessScore(empty))

	full := &Listing{
		VIN:           "WP0AB2A87AU780123",
		PriceUSD:      intPtr(32000),
		Mileage:       intPtr(45000),
		Year:          intPtr(2010),
		Model:         "Cayman",
		Trim:          "S",
		ExteriorColor: "Black",
		InteriorColor: "Sand Beige",
		Location:      "Atlanta, GA",
	}
	assert.Equal(t, 9, CompletenessScore(full))

	partial := &Listing{VIN: "WP0AB2A87AU780123", Year: intPtr(2011), Model: "Boxster"}
	assert.Equal(t, 3, CompletenessScore(partial))
}

func TestCompletenessScoreIgnoresDerivedFields(t *testing.T) {
	l := &Listing{
		TransmissionNorm:    "Automatic",
		ColorExtBucket:      "mono",
		AdjPriceUSD:         intPtr(29000),
		Top5OptionsPresent:  []string{"PASM"},
		OptionLabelsDisplay: []string{"PASM"},
	}
	assert.Equal(t, 0, CompletenessScore(l))
}

func TestRawRecordAccessors(t *testing.T) {
	r := RawRecord{
		"model":     "Cayman",
		"year":      2010,
		"mileage":   int64(45000),
		"price_usd": float64(32000),
	}

	assert.Equal(t, "Cayman", r.Str("model"))
	assert.Equal(t, "", r.Str("missing"))
	assert.Equal(t, 2010, *r.Int("year"))
	assert.Equal(t, 45000, *r.Int("mileage"))
	assert.Equal(t, 32000, *r.Int("price_usd"))
	assert.Nil(t, r.Int("missing"))
	assert.Nil(t, r.Int("model"))
}
