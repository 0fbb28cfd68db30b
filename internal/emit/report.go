// Package emit renders completed runs for humans and machines: markdown
// reports, styled terminal output, CSV and spreadsheet exports, and chart
// PNGs. Emitters only read results; they never mutate them.
package emit

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/akarmiris/riskalloc/internal/domain"
)

//go:embed templates/report.md
var templates embed.FS

var reportTemplate = template.Must(template.ParseFS(templates, "templates/report.md"))

// RunMeta is the header block of a rendered report.
type RunMeta struct {
	ID             string
	CreatedAt      time.Time
	Source         string
	PortfolioWorth float64
	Confidence     float64
	Simulations    int
	Seed           *uint64
	FailedCount    int
}

type reportRow struct {
	Asset         string
	AverageClose  string
	AverageReturn string
	Volatility    string
	HistoricalVaR string
	MonteCarloVaR string
	Weight        string
	Dollar        string
}

type reportFailure struct {
	Asset  string
	Reason string
}

type reportData struct {
	ID          string
	Source      string
	Generated   string
	Worth       string
	Confidence  string
	Simulations int
	Seed        string
	Rows        []reportRow
	Failures    []reportFailure
}

// Report renders a completed run as a markdown document.
func Report(meta RunMeta, results []domain.AllocationResult) string {
	data := reportData{
		ID:          meta.ID,
		Source:      meta.Source,
		Generated:   meta.CreatedAt.UTC().Format(time.RFC3339),
		Worth:       FormatUSD(meta.PortfolioWorth),
		Confidence:  formatPercent(meta.Confidence, 0),
		Simulations: meta.Simulations,
		Seed:        "random",
	}
	if meta.Seed != nil {
		data.Seed = strconv.FormatUint(*meta.Seed, 10)
	}

	for _, result := range results {
		if result.Failed() {
			data.Rows = append(data.Rows, reportRow{
				Asset:         result.AssetID,
				AverageClose:  "-",
				AverageReturn: "-",
				Volatility:    "-",
				HistoricalVaR: "-",
				MonteCarloVaR: "-",
				Weight:        "-",
				Dollar:        "-",
			})
			data.Failures = append(data.Failures, reportFailure{
				Asset:  result.AssetID,
				Reason: result.Failure,
			})
			continue
		}

		data.Rows = append(data.Rows, reportRow{
			Asset:         result.AssetID,
			AverageClose:  FormatUSD(result.Stats.AverageClose),
			AverageReturn: formatPercent(result.Stats.AverageReturn, 4),
			Volatility:    formatPercent(result.Stats.Volatility, 4),
			HistoricalVaR: formatPercent(result.Risk.HistoricalVaR, 4),
			MonteCarloVaR: FormatUSD(result.Risk.MonteCarloVaR),
			Weight:        formatPercent(result.Weight, 2),
			Dollar:        FormatUSD(result.Dollar),
		})
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, data); err != nil {
		return fmt.Sprintf("error rendering report: %v", err)
	}
	return b.String()
}

// FormatUSD renders a dollar amount the way a statement would: $1,234.56.
func FormatUSD(value float64) string {
	return money.NewFromFloat(value, money.USD).Display()
}

func formatPercent(value float64, places int) string {
	return fmt.Sprintf("%.*f%%", places, value*100)
}
