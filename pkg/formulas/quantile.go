package formulas

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the linearly interpolated empirical quantile of an
// ascending-sorted sample. For a fractional rank p*N the estimate
// interpolates between the adjacent order statistics; p below the first
// rank or above the last clamps to the extreme sample value instead of
// failing.
//
// Both risk estimators share this rule so their tails are comparable.
func Quantile(p float64, sorted []float64) float64 {
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// SortedCopy returns an ascending-sorted copy, leaving the input intact.
func SortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}
