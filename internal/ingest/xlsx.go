package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// LoadXLSX ingests a workbook with one worksheet per asset: the sheet name
// is the asset id and prices come from the Close column under the header
// row, top to bottom. Blank cells are skipped so trailing empty rows do not
// break the series.
func LoadXLSX(path string) ([]domain.Asset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	assets := make([]domain.Asset, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("sheet %s is empty", sheet)
		}

		closeCol := -1
		for i, name := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(name), "close") {
				closeCol = i
				break
			}
		}
		if closeCol == -1 {
			return nil, fmt.Errorf("sheet %s has no Close column", sheet)
		}

		var prices []float64
		for i, row := range rows[1:] {
			if closeCol >= len(row) || strings.TrimSpace(row[closeCol]) == "" {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(row[closeCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d: bad close %q: %w", sheet, i+2, row[closeCol], err)
			}
			prices = append(prices, value)
		}

		assets = append(assets, domain.Asset{ID: sheet, Prices: prices})
	}

	if err := domain.ValidateAssets(assets); err != nil {
		return nil, err
	}
	return assets, nil
}
