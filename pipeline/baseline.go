package pipeline

import (
	"sort"

	"carscout/models"
	"carscout/utils"
)

// GroupKey identifies one market bucket for baseline statistics.
type GroupKey struct {
	Model        string
	Transmission string
	MileageBand  string
}

// GroupMedians computes the median adjusted price per (model, transmission,
// mileage band) group. Read-only: reporting consumes it, the valuation path
// does not.
func GroupMedians(listings []*models.Listing) map[GroupKey]int {
	buckets := make(map[GroupKey][]int)
	for _, l := range listings {
		if l.AdjPriceUSD == nil {
			continue
		}
		buckets[groupKey(l)] = append(buckets[groupKey(l)], *l.AdjPriceUSD)
	}

	medians := make(map[GroupKey]int, len(buckets))
	for k, prices := range buckets {
		medians[k] = median(prices)
	}
	return medians
}

func groupKey(l *models.Listing) GroupKey {
	model := l.Model
	if model == "" {
		model = "Unknown"
	}
	trans := l.TransmissionNorm
	if trans == "" {
		trans = "Unknown"
	}
	return GroupKey{Model: model, Transmission: trans, MileageBand: utils.MileageBand(l.Mileage)}
}

func median(xs []int) int {
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
