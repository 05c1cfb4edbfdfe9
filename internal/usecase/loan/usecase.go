package loan

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/infrastructure/logging"
	"pawnshop-ledger/pkg/id"
)

const moduleName = "loan"

// BalanceCalculator is the accrual engine as seen by the loan list.
type BalanceCalculator interface {
	ComputeOutstandingBalance(ctx context.Context, l loan.Loan, asOf time.Time) (float64, error)
}

type Usecase struct {
	uow      uow.UnitOfWork
	balances BalanceCalculator
	log      *logrus.Logger
	newID    func() string
}

func NewUsecase(tx uow.UnitOfWork, balances BalanceCalculator, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, balances: balances, log: log, newID: id.New}
}

func (in Input) toLoan(loanID string) loan.Loan {
	return loan.Loan{
		ID:                  loanID,
		CustomerID:          in.CustomerID,
		BillNumber:          strings.TrimSpace(in.BillNumber),
		LoanType:            loan.Type(strings.ToLower(string(in.LoanType))),
		OrnamentWeightGrams: in.OrnamentWeightGrams,
		PrincipalAmount:     in.PrincipalAmount,
		StartDate:           in.StartDate.UTC(),
	}
}

// checkRefs validates l against the rest of the ledger: the customer must
// exist and no other loan may carry the same bill number.
func checkRefs(customers []customer.Customer, loans []loan.Loan, l loan.Loan) error {
	if _, ok := customer.Find(customers, l.CustomerID); !ok {
		return loan.ErrCustomerNotRegistered
	}
	if loan.BillNumberTaken(loans, l.BillNumber, l.ID) {
		return loan.ErrDuplicateBillNumber
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in Input) (*loan.Loan, error) {
	l := in.toLoan(u.newID())
	if err := l.Validate(); err != nil {
		return nil, err
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		customers, err := r.Customers.All(ctx)
		if err != nil {
			return err
		}
		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		if err := checkRefs(customers, loans, l); err != nil {
			return err
		}
		return r.Loans.ReplaceAll(ctx, append(loans, l))
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"module": moduleName, "loanId": l.ID, "billNumber": l.BillNumber}).Info("loan created")
	return &l, nil
}

func (u *Usecase) Update(ctx context.Context, loanID string, in Input) (*loan.Loan, error) {
	l := in.toLoan(loanID)
	if err := l.Validate(); err != nil {
		return nil, err
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range loans {
			if loans[i].ID == loanID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return loan.ErrNotFound
		}
		customers, err := r.Customers.All(ctx)
		if err != nil {
			return err
		}
		if err := checkRefs(customers, loans, l); err != nil {
			return err
		}
		loans[idx] = l
		return r.Loans.ReplaceAll(ctx, loans)
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	var out loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		l, ok := loan.Find(loans, loanID)
		if !ok {
			return loan.ErrNotFound
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every loan with its customer's name and the balance as of
// asOf. Computing the balance records any missing history months.
func (u *Usecase) List(ctx context.Context, asOf time.Time) ([]Summary, error) {
	var (
		loans     []loan.Loan
		customers []customer.Customer
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if loans, err = r.Loans.All(ctx); err != nil {
			return err
		}
		customers, err = r.Customers.All(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(loans))
	for _, l := range loans {
		s := Summary{Loan: l, CustomerName: customer.NameOf(customers, l.CustomerID)}
		bal, err := u.balances.ComputeOutstandingBalance(ctx, l, asOf)
		if err != nil {
			// listed with a zero balance; the failure is logged
			logging.LogError(u.log, moduleName, "List", "outstanding balance", l.ID, err)
			bal = 0
		}
		s.Outstanding = bal
		out = append(out, s)
	}
	return out, nil
}

// Delete removes the loan with its payments and history in one
// transaction.
func (u *Usecase) Delete(ctx context.Context, loanID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		kept := make([]loan.Loan, 0, len(loans))
		for _, l := range loans {
			if l.ID != loanID {
				kept = append(kept, l)
			}
		}
		if len(kept) == len(loans) {
			return loan.ErrNotFound
		}
		gone := map[string]struct{}{loanID: {}}

		pays, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		hist, err := r.History.All(ctx)
		if err != nil {
			return err
		}
		if err := r.Loans.ReplaceAll(ctx, kept); err != nil {
			return err
		}
		if err := r.Payments.ReplaceAll(ctx, payment.WithoutLoans(pays, gone)); err != nil {
			return err
		}
		return r.History.ReplaceAll(ctx, interest.WithoutLoans(hist, gone))
	})
}
