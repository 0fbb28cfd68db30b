package domain

import (
	"errors"
	"fmt"
)

// Run-level failures. These abort a run with no partial output.
var (
	// ErrZeroRisk means every asset's risk score was exactly zero, so
	// weights are undefined.
	ErrZeroRisk = errors.New("all risk scores are zero")

	// ErrInvalidPortfolioWorth means the portfolio worth was zero or
	// negative.
	ErrInvalidPortfolioWorth = errors.New("portfolio worth must be positive")

	// ErrAllAssetsFailed means no asset in the run produced a risk
	// estimate.
	ErrAllAssetsFailed = errors.New("no asset produced a risk estimate")
)

// DataValidationError reports malformed price input. It is raised before
// any computation begins and always aborts the run.
type DataValidationError struct {
	AssetID string
	Reason  string
	Index   int
	Price   float64
}

func (e *DataValidationError) Error() string {
	if e.AssetID == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	if e.Reason == "price is not positive" || e.Reason == "price is not a finite number" {
		return fmt.Sprintf("invalid input for %s: %s (index %d, value %v)", e.AssetID, e.Reason, e.Index, e.Price)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.AssetID, e.Reason)
}

// InsufficientDataError reports that an asset has too few data points for
// a computation. It is fatal for that asset only; the run carries on and
// flags the asset in its result row.
type InsufficientDataError struct {
	AssetID  string
	What     string // "prices" or "returns"
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d %s, got %d", e.AssetID, e.Required, e.What, e.Got)
}
