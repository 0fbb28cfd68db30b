// Package allocation turns per-asset risk estimates into a capital plan.
//
// The weighting is deliberately risk-seeking: an asset's share of the
// portfolio grows with the dollar magnitude of its simulated loss, so the
// most volatile names receive the most capital.
package allocation

import (
	"math"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// Candidate is one successfully scored asset entering the allocator.
type Candidate struct {
	AssetID       string
	MonteCarloVaR float64
}

// Allocation is the capital assigned to a single asset.
type Allocation struct {
	AssetID string  `json:"asset_id"`
	Weight  float64 `json:"weight"`
	Dollar  float64 `json:"dollar_allocation"`
}

// Allocate distributes portfolioWorth across the candidates in proportion
// to the magnitude of their Monte Carlo VaR. Historical VaR stays on a
// return scale and never enters the weighting; only the dollar-scale
// estimate drives capital.
//
// Returns domain.ErrInvalidPortfolioWorth when portfolioWorth is not a
// positive finite number, and domain.ErrZeroRisk when every candidate
// carries an exactly zero risk score (a flat-history portfolio).
func Allocate(candidates []Candidate, portfolioWorth float64) ([]Allocation, error) {
	if portfolioWorth <= 0 || math.IsNaN(portfolioWorth) || math.IsInf(portfolioWorth, 0) {
		return nil, domain.ErrInvalidPortfolioWorth
	}

	total := 0.0
	for _, c := range candidates {
		total += math.Abs(c.MonteCarloVaR)
	}
	if total == 0 {
		return nil, domain.ErrZeroRisk
	}

	allocations := make([]Allocation, len(candidates))
	for i, c := range candidates {
		weight := math.Abs(c.MonteCarloVaR) / total
		allocations[i] = Allocation{
			AssetID: c.AssetID,
			Weight:  weight,
			Dollar:  weight * portfolioWorth,
		}
	}

	return allocations, nil
}
