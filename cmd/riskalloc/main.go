package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/akarmiris/riskalloc/internal/cli"
	"github.com/akarmiris/riskalloc/pkg/logger"
)

func main() {
	// Rendered reports own stdout, so logs go to stderr
	log := logger.New(logger.Config{
		Level:  "warn",
		Pretty: true,
		Out:    os.Stderr,
	})

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	cli.Register(commander, log)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
