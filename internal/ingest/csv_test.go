package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarmiris/riskalloc/internal/domain"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	// Interleaved rows: assets are grouped by first appearance.
	path := writeFixture(t, "prices.csv", `asset,date,close
A,2024-01-01,100
B,2024-01-01,100
A,2024-01-02,101
B,2024-01-02,95
A,2024-01-03,102
B,2024-01-03,105
`)

	assets, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, "A", assets[0].ID)
	assert.Equal(t, []float64{100, 101, 102}, assets[0].Prices)
	assert.Equal(t, "B", assets[1].ID)
	assert.Equal(t, []float64{100, 95, 105}, assets[1].Prices)
}

func TestLoadCSVBadHeader(t *testing.T) {
	path := writeFixture(t, "prices.csv", "symbol,day,price\nA,2024-01-01,100\n")

	_, err := LoadCSV(path)
	assert.ErrorContains(t, err, "header")
}

func TestLoadCSVBadClose(t *testing.T) {
	path := writeFixture(t, "prices.csv", "asset,date,close\nA,2024-01-01,not-a-number\n")

	_, err := LoadCSV(path)
	assert.ErrorContains(t, err, "bad close")
}

func TestLoadCSVRejectsNonPositivePrices(t *testing.T) {
	path := writeFixture(t, "prices.csv", "asset,date,close\nA,2024-01-01,100\nA,2024-01-02,-5\n")

	_, err := LoadCSV(path)
	var validation *domain.DataValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeFixture(t, "prices.csv", "")

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
