package emit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarmiris/riskalloc/internal/domain"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestAllocationPie(t *testing.T) {
	png, err := AllocationPie(sampleResults())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output must be a PNG")
}

func TestAllocationPieNoScoredAssets(t *testing.T) {
	results := []domain.AllocationResult{{AssetID: "short", Failure: "short: need at least 2 returns, got 1"}}

	_, err := AllocationPie(results)
	assert.Error(t, err)
}

func TestPriceLines(t *testing.T) {
	assets := []domain.Asset{
		{ID: "A", Prices: []float64{100, 101, 102, 103, 104}},
		{ID: "B", Prices: []float64{100, 95, 105, 90, 110}},
	}

	png, err := PriceLines(assets)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output must be a PNG")

	_, err = PriceLines(nil)
	assert.Error(t, err)
}
