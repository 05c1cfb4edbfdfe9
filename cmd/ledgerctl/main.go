package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"pawnshop-ledger/internal/app"
	"pawnshop-ledger/internal/cli"
	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/infrastructure/logging"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cli.Register(commander, func(ctx context.Context) (*app.App, error) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		// logs go to stderr so command output stays clean
		return app.New(ctx, cfg, logging.NewWithOutput(cfg.LogLevel, os.Stderr))
	}, os.Stdout)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
