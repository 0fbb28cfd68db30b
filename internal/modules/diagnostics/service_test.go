package diagnostics

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// zigzag builds an oscillating but positive price series of length n.
func zigzag(n int) []float64 {
	prices := make([]float64, n)
	price := 100.0
	for i := range prices {
		if i%2 == 0 {
			price *= 1.03
		} else {
			price *= 0.98
		}
		prices[i] = price
	}
	return prices
}

func TestAnalyzeFullHistory(t *testing.T) {
	service := NewService(zerolog.Nop())
	prices := zigzag(40)

	report, err := service.Analyze(domain.Asset{ID: "AAA", Prices: prices})
	require.NoError(t, err)

	assert.Equal(t, "AAA", report.AssetID)

	require.NotNil(t, report.RSI)
	assert.GreaterOrEqual(t, *report.RSI, 0.0)
	assert.LessOrEqual(t, *report.RSI, 100.0)

	require.NotNil(t, report.SMA)
	sum := 0.0
	for _, p := range prices[len(prices)-SMALength:] {
		sum += p
	}
	assert.InDelta(t, sum/SMALength, *report.SMA, 1e-9)

	require.NotNil(t, report.MaxDrawdown)
	assert.GreaterOrEqual(t, *report.MaxDrawdown, 0.0)

	require.NotNil(t, report.SharpeRatio)
}

func TestAnalyzeKnownDrawdown(t *testing.T) {
	service := NewService(zerolog.Nop())

	report, err := service.Analyze(domain.Asset{ID: "dd", Prices: []float64{100, 110, 95, 88, 105}})
	require.NoError(t, err)

	require.NotNil(t, report.MaxDrawdown)
	assert.InDelta(t, 0.2, *report.MaxDrawdown, 1e-12, "peak 110 to trough 88")
}

func TestAnalyzeShortHistory(t *testing.T) {
	service := NewService(zerolog.Nop())

	report, err := service.Analyze(domain.Asset{ID: "short", Prices: []float64{100, 102, 101, 104, 103}})
	require.NoError(t, err)

	// Too short for the indicator windows, long enough for the rest.
	assert.Nil(t, report.RSI)
	assert.Nil(t, report.SMA)
	assert.NotNil(t, report.MaxDrawdown)
	assert.NotNil(t, report.SharpeRatio)
}

func TestAnalyzeRejectsBadPrices(t *testing.T) {
	service := NewService(zerolog.Nop())

	_, err := service.Analyze(domain.Asset{ID: "bad", Prices: []float64{100, 0, 101}})
	var validation *domain.DataValidationError
	assert.ErrorAs(t, err, &validation)
}
