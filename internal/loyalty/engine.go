package loyalty

import (
	"fmt"
	"math"
	"sort"
)

// PointsPerDollar is the earn rate applied to order totals.
const PointsPerDollar = 10

// Tier is a discrete loyalty level gating a discount rate and perks,
// keyed by a minimum point threshold.
type Tier struct {
	Name      string   `json:"name"`
	MinPoints int      `json:"minPoints"`
	Discount  int      `json:"discount"`
	Perks     []string `json:"perks"`
}

// DefaultTiers returns the standard four-tier table.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Bronze", MinPoints: 0, Discount: 0, Perks: []string{"Earn points"}},
		{Name: "Silver", MinPoints: 500, Discount: 5, Perks: []string{"5% off", "Early access to new drinks"}},
		{Name: "Gold", MinPoints: 1000, Discount: 10, Perks: []string{"10% off", "Free birthday drink", "Priority pickup"}},
		{Name: "Platinum", MinPoints: 2500, Discount: 15, Perks: []string{"15% off", "Free monthly drink", "VIP events"}},
	}
}

// Engine computes points and maps balances onto the tier table. The
// table is injected at construction so deployments and tests can swap
// it; the engine itself is stateless and safe for concurrent use.
type Engine struct {
	tiers []Tier // ascending by MinPoints, tiers[0].MinPoints == 0
}

// NewEngine creates an engine over the given tier table. The table must
// be non-empty and contain a zero-threshold base tier so every balance
// maps to some tier.
func NewEngine(tiers []Tier) (*Engine, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier table must not be empty")
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinPoints < sorted[j].MinPoints
	})

	if sorted[0].MinPoints != 0 {
		return nil, fmt.Errorf("tier table must contain a zero-threshold base tier, lowest is %d", sorted[0].MinPoints)
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinPoints == sorted[i-1].MinPoints {
			return nil, fmt.Errorf("duplicate tier threshold: %d", sorted[i].MinPoints)
		}
	}

	return &Engine{tiers: sorted}, nil
}

// PointsForTotal returns the points earned for an order total:
// floor(total x 10).
func (e *Engine) PointsForTotal(total float64) int {
	return int(math.Floor(total * PointsPerDollar))
}

// TierFor returns the highest tier whose threshold does not exceed the
// balance. The base tier is the guaranteed fallback.
func (e *Engine) TierFor(points int) Tier {
	for i := len(e.tiers) - 1; i >= 0; i-- {
		if points >= e.tiers[i].MinPoints {
			return e.tiers[i]
		}
	}
	return e.tiers[0]
}

// NextTierFor returns the tier immediately above the current one, or
// false if the balance is already at the top tier.
func (e *Engine) NextTierFor(points int) (Tier, bool) {
	for i := len(e.tiers) - 1; i >= 0; i-- {
		if points >= e.tiers[i].MinPoints {
			if i == len(e.tiers)-1 {
				return Tier{}, false
			}
			return e.tiers[i+1], true
		}
	}
	return e.tiers[0], true
}

// PointsToNextTier returns how many points are needed to reach the next
// tier, or 0 at the top tier.
func (e *Engine) PointsToNextTier(points int) int {
	next, ok := e.NextTierFor(points)
	if !ok {
		return 0
	}
	return next.MinPoints - points
}

// Tiers returns a copy of the tier table in ascending threshold order.
func (e *Engine) Tiers() []Tier {
	out := make([]Tier, len(e.tiers))
	copy(out, e.tiers)
	return out
}
