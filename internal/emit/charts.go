package emit

import (
	"fmt"
	"strconv"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// AllocationPie renders the weights of the scored assets as a pie chart.
// Failed assets carry no weight and are left out.
func AllocationPie(results []domain.AllocationResult) ([]byte, error) {
	var (
		names  []string
		values []float64
	)
	for _, result := range results {
		if result.Failed() {
			continue
		}
		names = append(names, result.AssetID)
		values = append(values, result.Weight)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no scored assets to chart")
	}

	painter, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Capital Allocation", "direct-risk weights"),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.PieSeriesShowLabel(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}

	return painter.Bytes()
}

// PriceLines renders every asset's closing-price history on one line chart,
// indexed by trading period.
func PriceLines(assets []domain.Asset) ([]byte, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets to chart")
	}

	longest := 0
	values := make([][]float64, 0, len(assets))
	names := make([]string, 0, len(assets))
	for _, asset := range assets {
		values = append(values, asset.Prices)
		names = append(names, asset.ID)
		if len(asset.Prices) > longest {
			longest = len(asset.Prices)
		}
	}

	labels := make([]string, longest)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Closing Prices"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag()}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render line chart: %w", err)
	}

	return painter.Bytes()
}
