package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carscout/models"
)

func TestGroupMediansOddAndEven(t *testing.T) {
	listings := []*models.Listing{
		{Model: "Cayman", TransmissionNorm: "Automatic", Mileage: intPtr(50000), AdjPriceUSD: intPtr(30000)},
		{Model: "Cayman", TransmissionNorm: "Automatic", Mileage: intPtr(55000), AdjPriceUSD: intPtr(34000)},
		{Model: "Cayman", TransmissionNorm: "Automatic", Mileage: intPtr(58000), AdjPriceUSD: intPtr(31000)},
		{Model: "Boxster", TransmissionNorm: "Manual", Mileage: intPtr(50000), AdjPriceUSD: intPtr(20000)},
		{Model: "Boxster", TransmissionNorm: "Manual", Mileage: intPtr(51000), AdjPriceUSD: intPtr(24000)},
	}

	medians := GroupMedians(listings)

	caymanKey := GroupKey{Model: "Cayman", Transmission: "Automatic", MileageBand: "40000-59999"}
	boxsterKey := GroupKey{Model: "Boxster", Transmission: "Manual", MileageBand: "40000-59999"}

	assert.Equal(t, 31000, medians[caymanKey])
	assert.Equal(t, 22000, medians[boxsterKey]) // even count averages the middle two
}

func TestGroupMediansSkipsUnvaluedListings(t *testing.T) {
	listings := []*models.Listing{
		{Model: "Cayman", TransmissionNorm: "Manual", AdjPriceUSD: intPtr(28000)},
		{Model: "Cayman", TransmissionNorm: "Manual"}, // never valued
	}

	medians := GroupMedians(listings)
	key := GroupKey{Model: "Cayman", Transmission: "Manual", MileageBand: "unknown"}
	assert.Equal(t, 28000, medians[key])
	assert.Len(t, medians, 1)
}

func TestGroupMediansUnknownBuckets(t *testing.T) {
	listings := []*models.Listing{
		{AdjPriceUSD: intPtr(25000)},
	}
	medians := GroupMedians(listings)
	key := GroupKey{Model: "Unknown", Transmission: "Unknown", MileageBand: "unknown"}
	assert.Equal(t, 25000, medians[key])
}
