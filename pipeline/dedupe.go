package pipeline

import (
	"carscout/models"
	"carscout/utils"
)

// Dedupe resolves multiple records describing the same physical vehicle to
// one survivor per VIN. For each VIN the strictly more complete record wins;
// ties keep whichever was seen first. Records without a VIN are never
// deduplicated against each other.
func Dedupe(listings []*models.Listing, logger *utils.Logger) []*models.Listing {
	byVIN := make(map[string]*models.Listing)
	vinOrder := make([]string, 0)
	noVIN := make([]*models.Listing, 0)

	for _, l := range listings {
		if l.VIN == "" {
			noVIN = append(noVIN, l)
			continue
		}
		prev, seen := byVIN[l.VIN]
		if !seen {
			byVIN[l.VIN] = l
			vinOrder = append(vinOrder, l.VIN)
			continue
		}
		if models.CompletenessScore(l) > models.CompletenessScore(prev) {
			byVIN[l.VIN] = l
		}
	}

	out := make([]*models.Listing, 0, len(vinOrder)+len(noVIN))
	for _, vin := range vinOrder {
		out = append(out, byVIN[vin])
	}
	out = append(out, noVIN...)

	logger.Info("[dedupe] %d listings → %d (removed %d VIN collisions)",
		len(listings), len(out), len(listings)-len(out))
	return out
}
