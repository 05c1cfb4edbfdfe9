package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pawnshop-ledger/internal/app"
	"pawnshop-ledger/internal/domain/record"
)

type pushCmd struct{ command }

func (*pushCmd) Name() string     { return "push" }
func (*pushCmd) Synopsis() string { return "copy every local collection to the remote mirror" }
func (*pushCmd) Usage() string {
	return `ledgerctl push

  Writes customers, loans, payments and interest history to the mirror.
`
}
func (*pushCmd) SetFlags(*flag.FlagSet) {}

func (c *pushCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(a *app.App) error {
		res, err := a.Sync.Push(ctx)
		c.printResults(res)
		return err
	})
}

type pullCmd struct{ command }

func (*pullCmd) Name() string     { return "pull" }
func (*pullCmd) Synopsis() string { return "replace the local collections with the remote mirror" }
func (*pullCmd) Usage() string {
	return `ledgerctl pull

  Reads all four collections from the mirror and replaces the local copy
  in one transaction. Missing files become empty collections.
`
}
func (*pullCmd) SetFlags(*flag.FlagSet) {}

func (c *pullCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(a *app.App) error {
		res, err := a.Sync.Pull(ctx)
		c.printResults(res)
		return err
	})
}

func (c command) printResults(res []record.SyncResult) {
	for _, r := range res {
		switch {
		case r.Error != "":
			fmt.Fprintf(c.out, "%-18s FAILED  %s\n", r.Collection, r.Error)
		default:
			fmt.Fprintf(c.out, "%-18s ok      %s\n", r.Collection, r.Version)
		}
	}
}

type statusCmd struct{ command }

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the storage mode and per-collection sync state" }
func (*statusCmd) Usage() string {
	return `ledgerctl status
`
}
func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(a *app.App) error {
		st, err := a.Sync.Status(ctx)
		if err != nil {
			return err
		}
		return c.printJSON(st)
	})
}
