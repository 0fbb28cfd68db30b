package emit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// exportHeader is shared by the CSV and spreadsheet exports.
var exportHeader = []string{
	"asset_id", "average_close", "average_return", "volatility",
	"historical_var", "monte_carlo_var", "weight", "dollar_allocation", "failure",
}

// WriteCSV exports the results to path, replacing any existing file
// atomically so readers never observe a half-written export.
func WriteCSV(path string, results []domain.AllocationResult) error {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, exportHeader)
	for _, result := range results {
		rows = append(rows, csvRow(result))
	}
	return atomicWriteCSV(path, rows)
}

// csvRow flattens one result; failed assets keep empty numeric cells.
func csvRow(result domain.AllocationResult) []string {
	row := []string{result.AssetID, "", "", "", "", "", "", "", result.Failure}
	if result.Failed() {
		return row
	}
	row[1] = formatFloat(result.Stats.AverageClose)
	row[2] = formatFloat(result.Stats.AverageReturn)
	row[3] = formatFloat(result.Stats.Volatility)
	row[4] = formatFloat(result.Risk.HistoricalVaR)
	row[5] = formatFloat(result.Risk.MonteCarloVaR)
	row[6] = formatFloat(result.Weight)
	row[7] = formatFloat(result.Dollar)
	return row
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func atomicWriteCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
