package allocation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarmiris/riskalloc/internal/domain"
)

func TestAllocateProportionalToRisk(t *testing.T) {
	candidates := []Candidate{
		{AssetID: "AAA", MonteCarloVaR: -2.0},
		{AssetID: "BBB", MonteCarloVaR: -1.0},
	}

	allocations, err := Allocate(candidates, 900.0)
	require.NoError(t, err)
	require.Len(t, allocations, 2)

	assert.Equal(t, "AAA", allocations[0].AssetID)
	assert.Equal(t, "BBB", allocations[1].AssetID)
	assert.InDelta(t, 2.0/3.0, allocations[0].Weight, 1e-12)
	assert.InDelta(t, 1.0/3.0, allocations[1].Weight, 1e-12)
	assert.InDelta(t, 600.0, allocations[0].Dollar, 1e-9)
	assert.InDelta(t, 300.0, allocations[1].Dollar, 1e-9)
}

func TestAllocateInvariants(t *testing.T) {
	candidates := []Candidate{
		{AssetID: "A", MonteCarloVaR: -3.17},
		{AssetID: "B", MonteCarloVaR: -0.04},
		{AssetID: "C", MonteCarloVaR: -12.5},
		{AssetID: "D", MonteCarloVaR: -7.77},
	}
	const worth = 12345.67

	allocations, err := Allocate(candidates, worth)
	require.NoError(t, err)

	sumWeight, sumDollar := 0.0, 0.0
	for _, a := range allocations {
		assert.GreaterOrEqual(t, a.Weight, 0.0)
		sumWeight += a.Weight
		sumDollar += a.Dollar
	}
	assert.InDelta(t, 1.0, sumWeight, 1e-9)
	assert.InDelta(t, worth, sumDollar, 1e-6)
}

func TestAllocateUsesMagnitude(t *testing.T) {
	// The sign of the estimate is irrelevant; only its size drives capital.
	candidates := []Candidate{
		{AssetID: "long", MonteCarloVaR: -5.0},
		{AssetID: "short", MonteCarloVaR: 5.0},
	}

	allocations, err := Allocate(candidates, 1000.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, allocations[0].Weight, 1e-12)
	assert.InDelta(t, 0.5, allocations[1].Weight, 1e-12)
}

func TestAllocateSingleCandidate(t *testing.T) {
	allocations, err := Allocate([]Candidate{{AssetID: "only", MonteCarloVaR: -0.42}}, 250.0)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, 1.0, allocations[0].Weight)
	assert.Equal(t, 250.0, allocations[0].Dollar)
}

func TestAllocateZeroRisk(t *testing.T) {
	candidates := []Candidate{
		{AssetID: "flat1", MonteCarloVaR: 0},
		{AssetID: "flat2", MonteCarloVaR: 0},
	}

	_, err := Allocate(candidates, 1000.0)
	assert.ErrorIs(t, err, domain.ErrZeroRisk)

	_, err = Allocate(nil, 1000.0)
	assert.ErrorIs(t, err, domain.ErrZeroRisk, "an empty candidate set has no risk to weight")
}

func TestAllocateInvalidWorth(t *testing.T) {
	candidates := []Candidate{{AssetID: "A", MonteCarloVaR: -1.0}}

	for _, worth := range []float64{0, -100, math.NaN(), math.Inf(1)} {
		_, err := Allocate(candidates, worth)
		assert.ErrorIs(t, err, domain.ErrInvalidPortfolioWorth)
	}
}
