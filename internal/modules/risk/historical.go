// Package risk implements the two per-asset loss estimators: the
// empirical (historical) quantile and the Monte Carlo simulation.
package risk

import (
	"fmt"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/pkg/formulas"
)

// HistoricalVaR estimates the loss at the given confidence level directly
// from the empirical return distribution: the (1-confidence) lower-tail
// quantile of the ascending-sorted returns, linearly interpolated between
// adjacent ranks. Ranks outside the sample clamp to the nearest order
// statistic.
//
// The result is return-scale: a negative fraction is the expected
// percentage loss. It is never converted to dollars here.
func HistoricalVaR(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if len(returns) == 0 {
		return 0, &domain.InsufficientDataError{What: "returns", Required: 1, Got: 0}
	}

	sorted := formulas.SortedCopy(returns)
	return formulas.Quantile(1-confidence, sorted), nil
}

func validateConfidence(confidence float64) error {
	if confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("confidence level must be inside (0, 1), got %v", confidence)
	}
	return nil
}
