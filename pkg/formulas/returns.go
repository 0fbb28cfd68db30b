package formulas

// CalculateReturns converts a chronological price series into simple
// periodic returns: Returns[i] = Price[i+1]/Price[i] - 1.
//
// The result has length len(prices)-1. Fewer than two prices yield an
// empty slice. Prices must be positive; callers validate before ingestion.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}

	return returns
}
