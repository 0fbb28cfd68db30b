// Package ingest turns external price sources into validated assets. Every
// loader returns assets in source order with prices oldest first, and runs
// the same ingestion validation before handing anything to the pipeline.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// LoadCSV ingests a single CSV file with an asset,date,close header. Rows
// of one asset must already be chronological; assets appear in the output
// in first-row order, so interleaved rows are fine.
func LoadCSV(path string) ([]domain.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	header := records[0]
	if len(header) < 3 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "asset") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "date") ||
		!strings.EqualFold(strings.TrimSpace(header[2]), "close") {
		return nil, fmt.Errorf("csv header must be asset,date,close, got %v", header)
	}

	var order []string
	prices := make(map[string][]float64)
	for i, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("csv row %d: want 3 columns, got %d", i+2, len(record))
		}

		id := strings.TrimSpace(record[0])
		value, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: bad close %q: %w", i+2, record[2], err)
		}

		if _, seen := prices[id]; !seen {
			order = append(order, id)
		}
		prices[id] = append(prices[id], value)
	}

	assets := make([]domain.Asset, 0, len(order))
	for _, id := range order {
		assets = append(assets, domain.Asset{ID: id, Prices: prices[id]})
	}

	if err := domain.ValidateAssets(assets); err != nil {
		return nil, err
	}
	return assets, nil
}
