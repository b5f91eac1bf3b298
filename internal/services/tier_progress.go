package services

import (
	"sort"

	"ambassador-program/internal/models"
)

// TierProgress describes where an ambassador sits on the tier ladder.
type TierProgress struct {
	CurrentTier  models.Tier  `json:"current_tier"`
	NextTier     *models.Tier `json:"next_tier,omitempty"`
	SalesForNext int          `json:"sales_for_next"`
	Progress     float64      `json:"progress"`
	IsMaxTier    bool         `json:"is_max_tier"`
}

// sortTiers returns a copy of the tier list ordered by MinSales
// ascending. Callers never see their input reordered.
func sortTiers(tiers []models.Tier) []models.Tier {
	sorted := make([]models.Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinSales < sorted[j].MinSales
	})
	return sorted
}

// TierForSales returns the highest tier whose minimum-sales threshold
// is <= lifetimeSales. The boundary is inclusive: an ambassador with
// exactly MinSales sales qualifies for that tier. Returns nil for an
// empty table.
func TierForSales(lifetimeSales int, tiers []models.Tier) *models.Tier {
	if len(tiers) == 0 {
		return nil
	}

	sorted := sortTiers(tiers)
	current := sorted[0]
	for _, tier := range sorted {
		if lifetimeSales >= tier.MinSales {
			current = tier
		}
	}
	return &current
}

// CalculateTierProgress maps (current tier, lifetime sales, tier table)
// to the ambassador's progress toward the next tier. Pure and
// deterministic: no I/O, safe to call from any goroutine.
//
// If the current tier is missing from the table (stale data) the lowest
// tier is assumed rather than failing. SalesForNext clamps to zero when
// lifetime sales already exceed the next threshold before the tier has
// been recomputed.
func CalculateTierProgress(currentTierID uint, lifetimeSales int, tiers []models.Tier) TierProgress {
	if len(tiers) == 0 {
		return TierProgress{}
	}

	sorted := sortTiers(tiers)

	currentIdx := 0
	for i, tier := range sorted {
		if tier.ID == currentTierID {
			currentIdx = i
			break
		}
	}

	current := sorted[currentIdx]

	if currentIdx == len(sorted)-1 {
		return TierProgress{
			CurrentTier: current,
			Progress:    100,
			IsMaxTier:   true,
		}
	}

	next := sorted[currentIdx+1]

	salesForNext := next.MinSales - lifetimeSales
	if salesForNext < 0 {
		salesForNext = 0
	}

	progress := 0.0
	progressRange := next.MinSales - current.MinSales
	if progressRange > 0 {
		progress = float64(lifetimeSales-current.MinSales) / float64(progressRange) * 100
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return TierProgress{
		CurrentTier:  current,
		NextTier:     &next,
		SalesForNext: salesForNext,
		Progress:     progress,
		IsMaxTier:    false,
	}
}
