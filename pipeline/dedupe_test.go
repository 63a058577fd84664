package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carscout/models"
)

func TestDedupeKeepsMoreCompleteRecord(t *testing.T) {
	sparse := &models.Listing{VIN: "VIN1", ListingURL: "u1"}
	rich := &models.Listing{
		VIN: "VIN1", ListingURL: "u2",
		PriceUSD: intPtr(30000), Mileage: intPtr(50000), Year: intPtr(2010),
	}

	out := Dedupe([]*models.Listing{sparse, rich}, newTestLogger())
	require.Len(t, out, 1)
	assert.Equal(t, "u2", out[0].ListingURL)
}

func TestDedupeTieKeepsFirstSeen(t *testing.T) {
	first := &models.Listing{VIN: "VIN1", ListingURL: "u1", Year: intPtr(2010)}
	second := &models.Listing{VIN: "VIN1", ListingURL: "u2", Year: intPtr(2011)}

	out := Dedupe([]*models.Listing{first, second}, newTestLogger())
	require.Len(t, out, 1)
	assert.Equal(t, "u1", out[0].ListingURL)
}

func TestDedupeNeverDropsVINlessRecords(t *testing.T) {
	a := &models.Listing{ListingURL: "u1"}
	b := &models.Listing{ListingURL: "u2"}
	c := &models.Listing{ListingURL: "u3"}

	out := Dedupe([]*models.Listing{a, b, c}, newTestLogger())
	require.Len(t, out, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"},
		[]string{out[0].ListingURL, out[1].ListingURL, out[2].ListingURL})
}

func TestDedupeOrdering(t *testing.T) {
	v1 := &models.Listing{VIN: "A", ListingURL: "a"}
	noVin := &models.Listing{ListingURL: "x"}
	v2 := &models.Listing{VIN: "B", ListingURL: "b"}

	out := Dedupe([]*models.Listing{v1, noVin, v2}, newTestLogger())
	require.Len(t, out, 3)
	// VIN survivors first (first-seen order), then VIN-less in input order.
	assert.Equal(t, "a", out[0].ListingURL)
	assert.Equal(t, "b", out[1].ListingURL)
	assert.Equal(t, "x", out[2].ListingURL)
}
