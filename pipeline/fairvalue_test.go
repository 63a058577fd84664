package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carscout/config"
	"carscout/models"
)

func testFairValueConfig() config.FairValueConfig {
	return config.FairValueConfig{
		BaseValueUSD: 25000,
		YearStepUSD:  500,
		TrimPremiums: map[string]int{"S": 3000},
		MileageBandBonusUSD: map[string]int{
			"<40k":   1500,
			"40-59k": -500,
			">=100k": -2500,
		},
		ExteriorColorUSD: 1000,
		InteriorColorUSD: 250,
		PerOptionUSD:     500,
	}
}

func TestFairValueReferenceScenario(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	l := &models.Listing{
		Year:                intPtr(2010),
		Model:               "Cayman",
		Trim:                "S",
		TransmissionNorm:    "Automatic",
		Mileage:             intPtr(45000),
		PriceUSD:            intPtr(32000),
		ColorExtBucket:      "mono",
		ColorIntBucket:      "mono",
		OptionValueUSDTotal: intPtr(1200),
	}

	results := v.Run([]*models.Listing{l})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	// 25000 + 3000 (S) + 500 (2010) + (-500) (40-59k) + 0 (mono colors)
	require.NotNil(t, l.BaselineAdjPriceUSD)
	assert.Equal(t, 28000, *l.BaselineAdjPriceUSD)
	require.NotNil(t, l.AdjPriceUSD)
	assert.Equal(t, 29200, *l.AdjPriceUSD)
	require.NotNil(t, l.DealDeltaUSD)
	assert.Equal(t, -2800, *l.DealDeltaUSD)
}

func TestFairValueConsistencyInvariant(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	listings := []*models.Listing{
		{Year: intPtr(2012), Trim: "S", Mileage: intPtr(20000), PriceUSD: intPtr(40000),
			ColorExtBucket: "color", ColorIntBucket: "color", OptionValueUSDTotal: intPtr(3300)},
		{Model: "Boxster", ColorExtBucket: "mono", ColorIntBucket: "mono"},
		{Year: intPtr(2009), Mileage: intPtr(120000), PriceUSD: intPtr(18000),
			ColorExtBucket: "mono", ColorIntBucket: "mono", OptionValueUSDTotal: intPtr(0)},
	}
	v.Run(listings)

	for _, l := range listings {
		require.NotNil(t, l.BaselineAdjPriceUSD)
		require.NotNil(t, l.AdjPriceUSD)
		total := 0
		if l.OptionValueUSDTotal != nil {
			total = *l.OptionValueUSDTotal
		}
		assert.Equal(t, *l.BaselineAdjPriceUSD+total, *l.AdjPriceUSD)
		if l.PriceUSD != nil {
			require.NotNil(t, l.DealDeltaUSD)
			assert.Equal(t, *l.AdjPriceUSD-*l.PriceUSD, *l.DealDeltaUSD)
		} else {
			assert.Nil(t, l.DealDeltaUSD)
		}
	}
}

func TestFairValueMissingFieldsUseFallbacks(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	l := &models.Listing{ColorExtBucket: "mono", ColorIntBucket: "mono"}
	v.Run([]*models.Listing{l})

	// No year → 2009 baseline (step 0); no mileage → neutral 60-79k band
	// (not in the bonus map → 0); no options engine, count 0 → 0.
	require.NotNil(t, l.BaselineAdjPriceUSD)
	assert.Equal(t, 25000, *l.BaselineAdjPriceUSD)
	assert.Equal(t, 25000, *l.AdjPriceUSD)
	assert.Nil(t, l.DealDeltaUSD)
}

func TestFairValueYearBelowBaselineClamps(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	l := &models.Listing{Year: intPtr(2007), ColorExtBucket: "mono", ColorIntBucket: "mono"}
	v.Run([]*models.Listing{l})
	assert.Equal(t, 25000, *l.BaselineAdjPriceUSD)
}

func TestFairValueTrimPremiumSubstringFallback(t *testing.T) {
	cfg := testFairValueConfig()
	cfg.TrimPremiums = map[string]int{"Cayman R": 9000}
	v := NewValuer(cfg, newTestLogger())

	l := &models.Listing{Model: "Cayman", Trim: "R",
		ColorExtBucket: "mono", ColorIntBucket: "mono"}
	v.Run([]*models.Listing{l})

	// "Cayman R" is not the literal trim, but matches "model trim" text.
	assert.Equal(t, 25000+9000, *l.BaselineAdjPriceUSD)
}

func TestFairValueUnknownTrimIsBase(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	l := &models.Listing{Trim: "Tiptronic Special",
		ColorExtBucket: "mono", ColorIntBucket: "mono"}
	v.Run([]*models.Listing{l})
	assert.Equal(t, 25000, *l.BaselineAdjPriceUSD)
}

func TestFairValueColorBonuses(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	l := &models.Listing{ColorExtBucket: "color", ColorIntBucket: "color"}
	v.Run([]*models.Listing{l})
	assert.Equal(t, 25000+1000+250, *l.BaselineAdjPriceUSD)
}

func TestFairValueLegacyPerOptionFallback(t *testing.T) {
	v := NewValuer(testFairValueConfig(), newTestLogger())
	l := &models.Listing{
		Top5OptionsCount:   3,
		Top5OptionsPresent: []string{"PSE", "PASM", "Sport Chrono"},
		ColorExtBucket:     "mono", ColorIntBucket: "mono",
	}
	v.Run([]*models.Listing{l})

	// OptionValueUSDTotal unset → per_option_usd × count.
	assert.Equal(t, 25000+3*500, *l.AdjPriceUSD)
}

func TestFairValueMileageBands(t *testing.T) {
	tests := []struct {
		mileage *int
		want    string
	}{
		{nil, "60-79k"},
		{intPtr(39999), "<40k"},
		{intPtr(40000), "40-59k"},
		{intPtr(60000), "60-79k"},
		{intPtr(99999), "80-99k"},
		{intPtr(100000), ">=100k"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, valuationBand(tt.mileage))
	}
}
