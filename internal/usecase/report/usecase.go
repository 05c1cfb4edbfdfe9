package report

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/usecase/accrual"
)

// Calculator runs the accrual engine for one loan.
type Calculator interface {
	Compute(ctx context.Context, l loan.Loan, asOf time.Time) (*accrual.Balance, error)
}

type Usecase struct {
	uow     uow.UnitOfWork
	balance Calculator
	log     *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, balance Calculator, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, balance: balance, log: log}
}

func (u *Usecase) LoanReport(ctx context.Context, loanID string, asOf time.Time) (*LoanReport, error) {
	var (
		l         loan.Loan
		customers []customer.Customer
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		found, ok := loan.Find(loans, loanID)
		if !ok {
			return loan.ErrNotFound
		}
		l = found
		customers, err = r.Customers.All(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	rate, err := l.LoanType.MonthlyRate()
	if err != nil {
		return nil, err
	}
	bal, err := u.balance.Compute(ctx, l, asOf)
	if err != nil {
		return nil, err
	}

	var (
		hist []interest.Entry
		pays []payment.Payment
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		all, err := r.History.All(ctx)
		if err != nil {
			return err
		}
		hist, _ = interest.ForLoan(all, loanID)
		allPays, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		pays = payment.ForLoan(allPays, loanID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.NewestFirst(pays)
	if pays == nil {
		pays = []payment.Payment{}
	}

	rep := &LoanReport{
		Loan:               l,
		CustomerName:       customer.NameOf(customers, l.CustomerID),
		AsOf:               asOf,
		MonthsActive:       bal.ElapsedMonths,
		MonthlyRatePercent: round2(rate * 100),
		Principal:          round2(l.PrincipalAmount),
		Outstanding:        round2(bal.Outstanding),
		TotalPaid:          round2(bal.TotalPaid),
		InterestAccrued:    round2(bal.Outstanding + bal.TotalPaid - l.PrincipalAmount),
		History:            GroupByCycle(hist),
		Payments:           pays,
	}
	rep.Display = Amounts{
		Principal:       FormatINR(rep.Principal),
		Outstanding:     FormatINR(rep.Outstanding),
		TotalPaid:       FormatINR(rep.TotalPaid),
		InterestAccrued: FormatINR(rep.InterestAccrued),
	}
	return rep, nil
}

// GroupByCycle sorts entries by date and splits them into capitalization
// cycles of interest.CapitalizationCycle months.
func GroupByCycle(entries []interest.Entry) []CycleGroup {
	sorted := append([]interest.Entry(nil), entries...)
	interest.SortByDate(sorted)

	groups := []CycleGroup{}
	for _, e := range sorted {
		c := e.Cycle()
		if len(groups) == 0 || groups[len(groups)-1].Cycle != c {
			groups = append(groups, CycleGroup{
				Cycle:      c,
				FirstMonth: (c-1)*interest.CapitalizationCycle + 1,
				LastMonth:  c * interest.CapitalizationCycle,
			})
		}
		g := &groups[len(groups)-1]
		g.Entries = append(g.Entries, e)
	}
	return groups
}
