package emit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarmiris/riskalloc/internal/domain"
)

func sampleResults() []domain.AllocationResult {
	return []domain.AllocationResult{
		{
			AssetID: "A",
			Stats:   &domain.Statistics{AverageClose: 102, AverageReturn: 0.009853, Volatility: 0.000121},
			Risk:    &domain.RiskEstimate{HistoricalVaR: 0.009709, MonteCarloVaR: -0.0161},
			Weight:  0.000616,
			Dollar:  0.62,
		},
		{
			AssetID: "B",
			Stats:   &domain.Statistics{AverageClose: 100, AverageReturn: 0.033657, Volatility: 0.159181},
			Risk:    &domain.RiskEstimate{HistoricalVaR: -0.142857, MonteCarloVaR: -26.13},
			Weight:  0.999384,
			Dollar:  999.38,
		},
		{AssetID: "short", Failure: "short: need at least 2 returns, got 1"},
	}
}

func sampleMeta() RunMeta {
	seed := uint64(42)
	return RunMeta{
		ID:             "run-1",
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Source:         "csv:watchlist.csv",
		PortfolioWorth: 1000,
		Confidence:     0.95,
		Simulations:    1000,
		Seed:           &seed,
		FailedCount:    1,
	}
}

func TestReportContents(t *testing.T) {
	report := Report(sampleMeta(), sampleResults())

	assert.Contains(t, report, "# Risk Allocation Report")
	assert.Contains(t, report, "`csv:watchlist.csv`")
	assert.Contains(t, report, "**Portfolio worth**: $1,000.00")
	assert.Contains(t, report, "**Confidence**: 95%")
	assert.Contains(t, report, "**Seed**: 42")

	assert.Contains(t, report, "| A | $102.00 |")
	assert.Contains(t, report, "-$26.13")
	assert.Contains(t, report, "$999.38")

	// Failed assets appear in the table as dashes and below it with the reason.
	assert.Contains(t, report, "| short | - |")
	assert.Contains(t, report, "## Excluded assets")
	assert.Contains(t, report, "need at least 2 returns")
}

func TestReportUnseededRun(t *testing.T) {
	meta := sampleMeta()
	meta.Seed = nil

	report := Report(meta, sampleResults())
	assert.Contains(t, report, "**Seed**: random")
}

func TestReportRowOrder(t *testing.T) {
	report := Report(sampleMeta(), sampleResults())

	posA := strings.Index(report, "| A |")
	posB := strings.Index(report, "| B |")
	posShort := strings.Index(report, "| short |")
	require.NotEqual(t, -1, posA)
	require.NotEqual(t, -1, posB)
	require.NotEqual(t, -1, posShort)
	assert.Less(t, posA, posB)
	assert.Less(t, posB, posShort)
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal(Report(sampleMeta(), sampleResults()))
	require.NoError(t, err)
	assert.Contains(t, out, "Risk Allocation Report")
}
