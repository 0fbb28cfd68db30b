// Package cli implements the riskalloc command line: running analyses
// against local price data and browsing the run archive.
package cli

import (
	"fmt"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/database"
	"github.com/akarmiris/riskalloc/internal/emit"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
)

const defaultArchivePath = "./data/riskalloc.db"

// Register registers all subcommands on the commander.
func Register(c *subcommands.Commander, log zerolog.Logger) {
	c.Register(&analyzeCmd{log: log}, "analysis")
	c.Register(&runsCmd{log: log}, "archive")
	c.Register(&showCmd{log: log}, "archive")
}

// openArchive opens and migrates the run archive at path.
func openArchive(path string, log zerolog.Logger) (*database.DB, *analysis.Repository, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return db, analysis.NewRepository(db.Conn(), log), nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when the renderer fails.
func printMarkdown(md string) {
	rendered, err := emit.RenderTerminal(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(rendered)
}

// runMeta projects a run onto the report header.
func runMeta(run *analysis.Run) emit.RunMeta {
	return emit.RunMeta{
		ID:             run.ID,
		CreatedAt:      run.CreatedAt,
		Source:         run.Source,
		PortfolioWorth: run.Params.PortfolioWorth,
		Confidence:     run.Params.Confidence,
		Simulations:    run.Params.Simulations,
		Seed:           run.Params.Seed,
		FailedCount:    run.FailedCount,
	}
}
