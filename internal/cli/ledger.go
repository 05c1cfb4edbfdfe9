package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pawnshop-ledger/internal/app"
)

type balanceCmd struct {
	command
	date dateFlag
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "compute the outstanding balance of a loan" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance [-d <date>] <loan-id>

  Runs the interest accrual up to the given date, recording any missing
  history months, and prints the balance.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) { c.date.register(f) }

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.out, "Error: exactly one loan id is required")
		return subcommands.ExitUsageError
	}
	asOf, err := c.date.value()
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(ctx, func(a *app.App) error {
		bal, err := a.Accrual.BalanceByID(ctx, f.Arg(0), asOf)
		if err != nil {
			return err
		}
		return c.printJSON(bal)
	})
}

type reportCmd struct {
	command
	date dateFlag
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the counter report of a loan" }
func (*reportCmd) Usage() string {
	return `ledgerctl report [-d <date>] <loan-id>
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) { c.date.register(f) }

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.out, "Error: exactly one loan id is required")
		return subcommands.ExitUsageError
	}
	asOf, err := c.date.value()
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(ctx, func(a *app.App) error {
		rep, err := a.Reports.LoanReport(ctx, f.Arg(0), asOf)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Bill %s (%s) for %s, as of %s\n", rep.Loan.BillNumber, rep.Loan.LoanType, rep.CustomerName, asOf.Format("2006-01-02"))
		fmt.Fprintf(c.out, "  Principal        %s\n", rep.Display.Principal)
		fmt.Fprintf(c.out, "  Interest accrued %s\n", rep.Display.InterestAccrued)
		fmt.Fprintf(c.out, "  Paid             %s\n", rep.Display.TotalPaid)
		fmt.Fprintf(c.out, "  Outstanding      %s\n", rep.Display.Outstanding)
		fmt.Fprintf(c.out, "  Months active    %d at %.0f%% a month\n", rep.MonthsActive, rep.MonthlyRatePercent)
		for _, g := range rep.History {
			fmt.Fprintf(c.out, "  Cycle %d: months %d-%d, %d entries\n", g.Cycle, g.FirstMonth, g.LastMonth, len(g.Entries))
		}
		return nil
	})
}
