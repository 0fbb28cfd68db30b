package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/emit"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	log zerolog.Logger

	archivePath string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "render an archived run's report" }
func (*showCmd) Usage() string {
	return `riskalloc show [-db <path>] <run-id>

  Renders the full report of one archived run.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.archivePath, "db", defaultArchivePath, "Archive database path")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one run id")
		return subcommands.ExitUsageError
	}

	db, repo, err := openArchive(c.archivePath, c.log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open archive: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	run, err := repo.GetRun(f.Arg(0))
	if err != nil {
		if errors.Is(err, analysis.ErrRunNotFound) {
			fmt.Fprintf(os.Stderr, "Error: run %q not found\n", f.Arg(0))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	printMarkdown(emit.Report(runMeta(run), run.Results))
	return subcommands.ExitSuccess
}
