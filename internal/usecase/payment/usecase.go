package payment

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/pkg/id"
)

const moduleName = "payment"

type Usecase struct {
	uow   uow.UnitOfWork
	log   *logrus.Logger
	newID func() string
}

func NewUsecase(tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, log: log, newID: id.New}
}

func (in Input) toPayment(paymentID string) (payment.Payment, error) {
	if in.Date.IsZero() {
		return payment.Payment{}, payment.ErrDateRequired
	}
	return payment.Payment{
		ID:     paymentID,
		LoanID: in.LoanID,
		Date:   in.Date.UTC(),
		Type:   strings.TrimSpace(in.Type),
		Amount: in.Amount,
	}, nil
}

func requireLoan(ctx context.Context, r uow.Repos, loanID string) error {
	loans, err := r.Loans.All(ctx)
	if err != nil {
		return err
	}
	if _, ok := loan.Find(loans, loanID); !ok {
		return payment.ErrLoanNotRegistered
	}
	return nil
}

// Create records a payment against an existing loan. The amount is taken
// as given; paying more than is owed is allowed.
func (u *Usecase) Create(ctx context.Context, in Input) (*payment.Payment, error) {
	p, err := in.toPayment(u.newID())
	if err != nil {
		return nil, err
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := requireLoan(ctx, r, p.LoanID); err != nil {
			return err
		}
		list, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		return r.Payments.ReplaceAll(ctx, append(list, p))
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"module": moduleName, "paymentId": p.ID, "loanId": p.LoanID, "amount": p.Amount}).Info("payment recorded")
	return &p, nil
}

func (u *Usecase) Update(ctx context.Context, paymentID string, in Input) (*payment.Payment, error) {
	p, err := in.toPayment(paymentID)
	if err != nil {
		return nil, err
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range list {
			if list[i].ID == paymentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return payment.ErrNotFound
		}
		if err := requireLoan(ctx, r, p.LoanID); err != nil {
			return err
		}
		list[idx] = p
		return r.Payments.ReplaceAll(ctx, list)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (u *Usecase) Get(ctx context.Context, paymentID string) (*payment.Payment, error) {
	var out payment.Payment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		p, ok := payment.Find(list, paymentID)
		if !ok {
			return payment.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every payment, newest first, with the bill number and
// customer name of its loan. Dangling references read as "Unknown".
func (u *Usecase) List(ctx context.Context) ([]View, error) {
	var (
		pays      []payment.Payment
		loans     []loan.Loan
		customers []customer.Customer
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if pays, err = r.Payments.All(ctx); err != nil {
			return err
		}
		if loans, err = r.Loans.All(ctx); err != nil {
			return err
		}
		customers, err = r.Customers.All(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	payment.NewestFirst(pays)
	out := make([]View, 0, len(pays))
	for _, p := range pays {
		v := View{Payment: p, BillNumber: customer.UnknownName, CustomerName: customer.UnknownName}
		if l, ok := loan.Find(loans, p.LoanID); ok {
			v.BillNumber = l.BillNumber
			v.CustomerName = customer.NameOf(customers, l.CustomerID)
		}
		out = append(out, v)
	}
	return out, nil
}

// Delete removes one payment. Nothing else references payments.
func (u *Usecase) Delete(ctx context.Context, paymentID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		kept := make([]payment.Payment, 0, len(list))
		for _, p := range list {
			if p.ID != paymentID {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(list) {
			return payment.ErrNotFound
		}
		return r.Payments.ReplaceAll(ctx, kept)
	})
}
