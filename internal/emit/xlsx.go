package emit

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// WriteXLSX exports the results as a spreadsheet with a single Allocation
// worksheet, mirroring the CSV columns. Numeric cells stay numeric so the
// sheet can be aggregated directly.
func WriteXLSX(path string, results []domain.AllocationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Allocation"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, name := range exportHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, result := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := xlsxRow(result)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

func xlsxRow(result domain.AllocationResult) []interface{} {
	if result.Failed() {
		return []interface{}{result.AssetID, nil, nil, nil, nil, nil, nil, nil, result.Failure}
	}
	return []interface{}{
		result.AssetID,
		result.Stats.AverageClose,
		result.Stats.AverageReturn,
		result.Stats.Volatility,
		result.Risk.HistoricalVaR,
		result.Risk.MonteCarloVaR,
		result.Weight,
		result.Dollar,
		"",
	}
}
