// Package cli implements ledgerctl, the operator command line for the
// ledger: mirror push and pull, sync status, and balance lookups.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/subcommands"

	"pawnshop-ledger/internal/app"
)

// Opener builds the application for one command run.
type Opener func(ctx context.Context) (*app.App, error)

// Register the subcommands on c. Results go to out.
func Register(c *subcommands.Commander, open Opener, out io.Writer) {
	base := command{open: open, out: out}
	c.Register(&pushCmd{command: base}, "mirror")
	c.Register(&pullCmd{command: base}, "mirror")
	c.Register(&statusCmd{command: base}, "mirror")

	c.Register(&balanceCmd{command: base}, "ledger")
	c.Register(&reportCmd{command: base}, "ledger")
}

type command struct {
	open Opener
	out  io.Writer
}

// run opens the app, calls fn and closes the app again.
func (c command) run(ctx context.Context, fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := c.open(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := fn(a); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c command) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dateFlag holds a -d YYYY-MM-DD flag, defaulting to today.
type dateFlag struct {
	raw string
	now func() time.Time
}

func (d *dateFlag) register(f *flag.FlagSet) {
	f.StringVar(&d.raw, "d", "", "As-of date YYYY-MM-DD (defaults to today)")
}

func (d *dateFlag) value() (time.Time, error) {
	if d.raw == "" {
		now := time.Now
		if d.now != nil {
			now = d.now
		}
		t := now().UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation("2006-01-02", d.raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", d.raw)
	}
	return t, nil
}
