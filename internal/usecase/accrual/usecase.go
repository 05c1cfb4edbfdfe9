package accrual

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/lock"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/infrastructure/logging"
	"pawnshop-ledger/pkg/id"
)

const moduleName = "accrual"

type Usecase struct {
	uow    uow.UnitOfWork
	locker lock.Locker
	log    *logrus.Logger
	newID  func() string
}

func NewUsecase(tx uow.UnitOfWork, locker lock.Locker, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, locker: locker, log: log, newID: id.New}
}

// ComputeOutstandingBalance recomputes l up to asOf, records any missing
// history months and returns what is still owed, never below zero.
func (u *Usecase) ComputeOutstandingBalance(ctx context.Context, l loan.Loan, asOf time.Time) (float64, error) {
	b, err := u.Compute(ctx, l, asOf)
	if err != nil {
		return 0, err
	}
	return b.Outstanding, nil
}

// Compute is ComputeOutstandingBalance with the intermediate figures.
func (u *Usecase) Compute(ctx context.Context, l loan.Loan, asOf time.Time) (*Balance, error) {
	// reject before touching storage or the lock
	if _, err := l.LoanType.MonthlyRate(); err != nil {
		return nil, err
	}

	unlock, err := u.locker.Lock(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		acc  interest.Accrual
		paid float64
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		all, err := r.History.All(ctx)
		if err != nil {
			return err
		}
		mine, others := interest.ForLoan(all, l.ID)

		acc, err = interest.Accrue(l, asOf, mine, u.newID)
		if err != nil {
			return err
		}
		if acc.Changed {
			merged := append(others, acc.Entries...)
			if err := r.History.ReplaceAll(ctx, merged); err != nil {
				return err
			}
		}

		pays, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		paid = payment.Total(payment.ForLoan(pays, l.ID))
		return nil
	})
	if err != nil {
		logging.LogError(u.log, moduleName, "Compute", "accrue loan", map[string]any{"loanId": l.ID, "asOf": asOf}, err)
		return nil, fmt.Errorf("compute balance for loan %s: %w", l.ID, err)
	}

	return &Balance{
		LoanID:          l.ID,
		AsOf:            asOf,
		ElapsedMonths:   acc.ElapsedMonths,
		Principal:       acc.Principal,
		AccruedInterest: acc.Accrued,
		TotalPaid:       paid,
		Outstanding:     interest.Outstanding(acc, paid),
	}, nil
}

// BalanceByID looks the loan up and computes its balance.
func (u *Usecase) BalanceByID(ctx context.Context, loanID string, asOf time.Time) (*Balance, error) {
	var l loan.Loan
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
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Compute(ctx, l, asOf)
}

// History returns the recorded entries of a loan, oldest first.
func (u *Usecase) History(ctx context.Context, loanID string) ([]interest.Entry, error) {
	var out []interest.Entry
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		if _, ok := loan.Find(loans, loanID); !ok {
			return loan.ErrNotFound
		}
		all, err := r.History.All(ctx)
		if err != nil {
			return err
		}
		out, _ = interest.ForLoan(all, loanID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	interest.SortByDate(out)
	if out == nil {
		out = []interest.Entry{}
	}
	return out, nil
}
