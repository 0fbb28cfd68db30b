package analysis

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarmiris/riskalloc/internal/domain"
)

func testService() *Service {
	return NewService(nil, zerolog.Nop())
}

func seedParams(worth float64, seed uint64) Params {
	return Params{PortfolioWorth: worth, Seed: &seed}
}

func TestRunEndToEnd(t *testing.T) {
	assets := []domain.Asset{
		{ID: "A", Prices: []float64{100, 101, 102, 103, 104}},
		{ID: "B", Prices: []float64{100, 95, 105, 90, 110}},
	}

	run, err := testService().Run(assets, seedParams(1000, 42))
	require.NoError(t, err)
	require.Len(t, run.Results, 2)

	a, b := run.Results[0], run.Results[1]
	require.Equal(t, "A", a.AssetID)
	require.Equal(t, "B", b.AssetID)
	require.False(t, a.Failed())
	require.False(t, b.Failed())

	// The steady climber is far less volatile than the seesaw.
	assert.Less(t, a.Stats.Volatility, b.Stats.Volatility)

	// Historical VaR is the clamped worst observation here: the tail rank
	// at 95% falls below the smallest of four returns.
	assert.InDelta(t, 104.0/103.0-1, a.Risk.HistoricalVaR, 1e-12)
	assert.InDelta(t, 90.0/105.0-1, b.Risk.HistoricalVaR, 1e-12)

	// Direct-risk weighting sends more capital to the riskier asset.
	assert.Greater(t, b.Dollar, a.Dollar)

	sumWeight := a.Weight + b.Weight
	sumDollar := a.Dollar + b.Dollar
	assert.InDelta(t, 1.0, sumWeight, 1e-9)
	assert.InDelta(t, 1000.0, sumDollar, 1e-6)

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, 0, run.FailedCount)
	require.NotNil(t, run.Params.Seed)
	assert.Equal(t, uint64(42), *run.Params.Seed)
}

func TestRunAppliesDefaults(t *testing.T) {
	assets := []domain.Asset{{ID: "A", Prices: []float64{100, 101, 103}}}

	run, err := testService().Run(assets, Params{PortfolioWorth: 500})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfidence, run.Params.Confidence)
	assert.Equal(t, DefaultSimulations, run.Params.Simulations)
	require.NotNil(t, run.Params.Seed, "an unseeded run records the seed it drew")
}

func TestRunIdempotentUnderSeed(t *testing.T) {
	assets := []domain.Asset{
		{ID: "A", Prices: []float64{100, 101, 102, 103, 104}},
		{ID: "B", Prices: []float64{100, 95, 105, 90, 110}},
		{ID: "C", Prices: []float64{50, 52, 49, 53, 51}},
	}

	first, err := testService().Run(assets, seedParams(1000, 7))
	require.NoError(t, err)
	second, err := testService().Run(assets, seedParams(1000, 7))
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results, "same inputs and seed must reproduce every number")

	third, err := testService().Run(assets, seedParams(1000, 8))
	require.NoError(t, err)
	assert.NotEqual(t, first.Results, third.Results)
}

func TestRunFlagsShortHistories(t *testing.T) {
	assets := []domain.Asset{
		{ID: "full", Prices: []float64{100, 95, 105, 90, 110}},
		{ID: "short", Prices: []float64{100, 101}},
	}

	run, err := testService().Run(assets, seedParams(1000, 1))
	require.NoError(t, err, "one healthy asset keeps the run alive")
	require.Len(t, run.Results, 2)
	assert.Equal(t, 1, run.FailedCount)

	flagged := run.Results[1]
	assert.Equal(t, "short", flagged.AssetID)
	assert.True(t, flagged.Failed())
	assert.Contains(t, flagged.Failure, "need at least 2 returns")
	assert.Nil(t, flagged.Stats)
	assert.Nil(t, flagged.Risk)
	assert.Zero(t, flagged.Weight)
	assert.Zero(t, flagged.Dollar)

	// The surviving asset absorbs the whole portfolio.
	assert.InDelta(t, 1.0, run.Results[0].Weight, 1e-9)
	assert.InDelta(t, 1000.0, run.Results[0].Dollar, 1e-6)
}

func TestRunFailsWhenEveryAssetFails(t *testing.T) {
	assets := []domain.Asset{
		{ID: "one", Prices: []float64{100, 101}},
		{ID: "two", Prices: []float64{50}},
	}

	_, err := testService().Run(assets, seedParams(1000, 1))
	assert.ErrorIs(t, err, domain.ErrAllAssetsFailed)
}

func TestRunPreservesInputOrder(t *testing.T) {
	var assets []domain.Asset
	for i := 0; i < 8; i++ {
		base := 100.0 + float64(i)
		assets = append(assets, domain.Asset{
			ID:     fmt.Sprintf("asset-%d", i),
			Prices: []float64{base, base * 1.02, base * 0.99, base * 1.03},
		})
	}

	run, err := testService().Run(assets, seedParams(1000, 3))
	require.NoError(t, err)
	require.Len(t, run.Results, len(assets))

	for i, result := range run.Results {
		assert.Equal(t, fmt.Sprintf("asset-%d", i), result.AssetID)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	service := testService()

	var validation *domain.DataValidationError

	_, err := service.Run([]domain.Asset{{ID: "neg", Prices: []float64{100, -5, 101}}}, seedParams(1000, 1))
	assert.ErrorAs(t, err, &validation, "negative price")

	_, err = service.Run([]domain.Asset{
		{ID: "dup", Prices: []float64{100, 101, 102}},
		{ID: "dup", Prices: []float64{100, 101, 102}},
	}, seedParams(1000, 1))
	assert.ErrorAs(t, err, &validation, "duplicate id")

	_, err = service.Run(nil, seedParams(1000, 1))
	assert.ErrorAs(t, err, &validation, "empty asset set")
}

func TestRunRejectsBadParams(t *testing.T) {
	assets := []domain.Asset{{ID: "A", Prices: []float64{100, 101, 102}}}
	service := testService()

	_, err := service.Run(assets, Params{PortfolioWorth: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidPortfolioWorth)

	_, err = service.Run(assets, Params{PortfolioWorth: -100})
	assert.ErrorIs(t, err, domain.ErrInvalidPortfolioWorth)

	_, err = service.Run(assets, Params{PortfolioWorth: 1000, Confidence: 1.2})
	assert.Error(t, err)

	_, err = service.Run(assets, Params{PortfolioWorth: 1000, Simulations: -4})
	assert.Error(t, err)
}

func TestRunZeroRiskPortfolio(t *testing.T) {
	// A constant history has zero volatility and zero VaR on both
	// estimators, leaving nothing to weight.
	assets := []domain.Asset{{ID: "flat", Prices: []float64{100, 100, 100, 100}}}

	_, err := testService().Run(assets, seedParams(1000, 1))
	assert.ErrorIs(t, err, domain.ErrZeroRisk)
}

func TestExecuteWithoutArchive(t *testing.T) {
	assets := []domain.Asset{{ID: "A", Prices: []float64{100, 102, 101, 105}}}

	run, err := testService().Execute("csv:watchlist.csv", assets, seedParams(750, 9))
	require.NoError(t, err)
	assert.Equal(t, "csv:watchlist.csv", run.Source)
}
