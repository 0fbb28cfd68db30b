package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/internal/emit"
	"github.com/akarmiris/riskalloc/internal/ingest"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
)

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	log zerolog.Logger

	csvPath    string
	xlsxPath   string
	historyDir string

	worth      float64
	confidence float64
	sims       int
	seed       string

	outDir      string
	archivePath string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "run the risk pipeline on a price dataset" }
func (*analyzeCmd) Usage() string {
	return `riskalloc analyze -csv <path> | -xlsx <path> | -history <dir> [-worth n] [-confidence q] [-sims n] [-seed n] [-out <dir>] [-db <path>]

  Computes per-asset statistics, historical and Monte Carlo VaR, and the
  capital allocation for one dataset, then prints the report.

Usage Examples:
# Analyze a CSV watchlist with a fixed seed.
$ riskalloc analyze -csv prices.csv -worth 25000 -seed 42

# Analyze a directory of history databases, archive the run and export
# everything to ./reports.
$ riskalloc analyze -history ./data/history -db ./data/riskalloc.db -out ./reports

`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csvPath, "csv", "", "CSV price file (asset,date,close)")
	f.StringVar(&c.xlsxPath, "xlsx", "", "Spreadsheet with one sheet per asset")
	f.StringVar(&c.historyDir, "history", "", "Directory of per-symbol history databases")
	f.Float64Var(&c.worth, "worth", 10000, "Portfolio worth to allocate")
	f.Float64Var(&c.confidence, "confidence", analysis.DefaultConfidence, "VaR confidence level")
	f.IntVar(&c.sims, "sims", analysis.DefaultSimulations, "Monte Carlo simulations per asset")
	f.StringVar(&c.seed, "seed", "", "Random seed (defaults to a fresh draw)")
	f.StringVar(&c.outDir, "out", "", "Directory for report and export files")
	f.StringVar(&c.archivePath, "db", "", "Archive database to record the run in")
}

func (c *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	params, err := c.params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	source, assets, err := c.loadAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var repo *analysis.Repository
	if c.archivePath != "" {
		db, archiveRepo, err := openArchive(c.archivePath, c.log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not open archive: %v\n", err)
			return subcommands.ExitFailure
		}
		defer db.Close()
		repo = archiveRepo
	}

	service := analysis.NewService(repo, c.log)
	run, err := service.Execute(source, assets, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := emit.Report(runMeta(run), run.Results)
	printMarkdown(md)

	if c.outDir != "" {
		if err := c.export(run, assets, md); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}

// params builds the pipeline parameters from the flags.
func (c *analyzeCmd) params() (analysis.Params, error) {
	params := analysis.Params{
		PortfolioWorth: c.worth,
		Confidence:     c.confidence,
		Simulations:    c.sims,
	}

	if c.seed != "" {
		seed, err := strconv.ParseUint(c.seed, 10, 64)
		if err != nil {
			return analysis.Params{}, fmt.Errorf("invalid seed %q: must be an unsigned integer", c.seed)
		}
		params.Seed = &seed
	}

	sources := 0
	for _, path := range []string{c.csvPath, c.xlsxPath, c.historyDir} {
		if path != "" {
			sources++
		}
	}
	if sources != 1 {
		return analysis.Params{}, fmt.Errorf("exactly one of -csv, -xlsx or -history is required")
	}

	return params, nil
}

// loadAssets reads prices from the configured source.
func (c *analyzeCmd) loadAssets() (string, []domain.Asset, error) {
	switch {
	case c.csvPath != "":
		assets, err := ingest.LoadCSV(c.csvPath)
		return "csv:" + c.csvPath, assets, err
	case c.xlsxPath != "":
		assets, err := ingest.LoadXLSX(c.xlsxPath)
		return "xlsx:" + c.xlsxPath, assets, err
	default:
		assets, err := ingest.LoadHistoryDir(c.historyDir)
		return "history:" + c.historyDir, assets, err
	}
}

// export writes the report and every export format into the output directory.
func (c *analyzeCmd) export(run *analysis.Run, assets []domain.Asset, md string) error {
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.outDir, "report.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := emit.WriteCSV(filepath.Join(c.outDir, "allocation.csv"), run.Results); err != nil {
		return err
	}

	if err := emit.WriteXLSX(filepath.Join(c.outDir, "allocation.xlsx"), run.Results); err != nil {
		return err
	}

	pie, err := emit.AllocationPie(run.Results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.outDir, "allocation.png"), pie, 0o644); err != nil {
		return fmt.Errorf("failed to write allocation chart: %w", err)
	}

	prices, err := emit.PriceLines(assets)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.outDir, "prices.png"), prices, 0o644); err != nil {
		return fmt.Errorf("failed to write price chart: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote report and exports to %s\n", c.outDir)
	return nil
}
