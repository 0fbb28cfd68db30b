package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/emit"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
)

// runsCmd holds the flags for the 'runs' subcommand.
type runsCmd struct {
	log zerolog.Logger

	archivePath string
	limit       int
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list archived analysis runs" }
func (*runsCmd) Usage() string {
	return `riskalloc runs [-db <path>] [-limit n]

  Lists archived runs, newest first.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.archivePath, "db", defaultArchivePath, "Archive database path")
	f.IntVar(&c.limit, "limit", 20, "Maximum number of runs to list")
}

func (c *runsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, repo, err := openArchive(c.archivePath, c.log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open archive: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	summaries, err := repo.ListRuns(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(summaries) == 0 {
		fmt.Println("No archived runs.")
		return subcommands.ExitSuccess
	}

	printMarkdown(runList(summaries))
	return subcommands.ExitSuccess
}

// runList renders the archive listing as a markdown table.
func runList(summaries []analysis.Summary) string {
	var b strings.Builder

	b.WriteString("# Archived Runs\n\n")
	b.WriteString("| Run | Created | Source | Worth | Assets | Failed |\n")
	b.WriteString("| --- | --- | --- | ---: | ---: | ---: |\n")

	for _, s := range summaries {
		source := s.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d |\n",
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			source,
			emit.FormatUSD(s.PortfolioWorth),
			s.AssetCount,
			s.FailedCount,
		)
	}

	return b.String()
}
