package domain

import "math"

// Asset is one instrument in a run: an identifier plus its closing prices
// in chronological order (oldest first). Assets are immutable once ingested.
type Asset struct {
	ID     string    `json:"id"`
	Prices []float64 `json:"prices"`
}

// Validate checks the ingestion preconditions: a non-empty identifier and
// strictly positive, finite prices. It does not check series length;
// short series are a per-asset condition handled by the pipeline, not a
// reason to reject the whole input.
func (a Asset) Validate() error {
	if a.ID == "" {
		return &DataValidationError{Reason: "asset id is empty"}
	}
	for i, p := range a.Prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return &DataValidationError{AssetID: a.ID, Reason: "price is not a finite number", Index: i, Price: p}
		}
		if p <= 0 {
			return &DataValidationError{AssetID: a.ID, Reason: "price is not positive", Index: i, Price: p}
		}
	}
	return nil
}

// ValidateAssets validates every asset and rejects duplicate identifiers.
func ValidateAssets(assets []Asset) error {
	if len(assets) == 0 {
		return &DataValidationError{Reason: "no assets provided"}
	}
	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		if err := a.Validate(); err != nil {
			return err
		}
		if seen[a.ID] {
			return &DataValidationError{AssetID: a.ID, Reason: "duplicate asset id"}
		}
		seen[a.ID] = true
	}
	return nil
}

// Statistics are the sufficient statistics of one asset's price history,
// computed once and shared by both risk estimators.
type Statistics struct {
	AverageClose  float64 `json:"average_close"`
	AverageReturn float64 `json:"average_return"`
	Volatility    float64 `json:"volatility"` // sample standard deviation of returns
}

// RiskEstimate pairs the two loss estimates for one asset.
//
// HistoricalVaR is a return-scale quantile (a negative fraction is a loss).
// MonteCarloVaR is a dollar amount simulated against a one-unit notional at
// the average close. The units differ on purpose; weighting reconciles them
// by using only the Monte Carlo magnitude.
type RiskEstimate struct {
	HistoricalVaR float64 `json:"historical_var"`
	MonteCarloVaR float64 `json:"monte_carlo_var"`
}

// AllocationResult is one output row of a run. Stats and Risk are nil when
// the asset failed; Failure then carries the reason. Weight and Dollar are
// zero for failed assets.
type AllocationResult struct {
	AssetID string        `json:"asset_id"`
	Stats   *Statistics   `json:"stats,omitempty"`
	Risk    *RiskEstimate `json:"risk,omitempty"`
	Weight  float64       `json:"weight"`
	Dollar  float64       `json:"dollar_allocation"`
	Failure string        `json:"failure,omitempty"`
}

// Failed reports whether the asset was excluded from the allocation.
func (r AllocationResult) Failed() bool {
	return r.Failure != ""
}
