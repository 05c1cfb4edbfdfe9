package customer

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/pkg/id"
)

const moduleName = "customer"

type Usecase struct {
	uow   uow.UnitOfWork
	log   *logrus.Logger
	newID func() string
}

func NewUsecase(tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{uow: tx, log: log, newID: id.New}
}

func (in Input) toCustomer(id string) (customer.Customer, error) {
	c := customer.Customer{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Mobile:       strings.TrimSpace(in.Mobile),
		Address:      strings.TrimSpace(in.Address),
		GovernmentID: strings.TrimSpace(in.GovernmentID),
	}
	if c.Name == "" {
		return customer.Customer{}, customer.ErrNameRequired
	}
	return c, nil
}

func (u *Usecase) Create(ctx context.Context, in Input) (*customer.Customer, error) {
	c, err := in.toCustomer(u.newID())
	if err != nil {
		return nil, err
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Customers.All(ctx)
		if err != nil {
			return err
		}
		return r.Customers.ReplaceAll(ctx, append(list, c))
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"module": moduleName, "customerId": c.ID}).Info("customer created")
	return &c, nil
}

func (u *Usecase) Update(ctx context.Context, customerID string, in Input) (*customer.Customer, error) {
	c, err := in.toCustomer(customerID)
	if err != nil {
		return nil, err
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Customers.All(ctx)
		if err != nil {
			return err
		}
		for i := range list {
			if list[i].ID == customerID {
				list[i] = c
				return r.Customers.ReplaceAll(ctx, list)
			}
		}
		return customer.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (u *Usecase) Get(ctx context.Context, customerID string) (*customer.Customer, error) {
	var out customer.Customer
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Customers.All(ctx)
		if err != nil {
			return err
		}
		c, ok := customer.Find(list, customerID)
		if !ok {
			return customer.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) List(ctx context.Context) ([]customer.Customer, error) {
	var out []customer.Customer
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Customers.All(ctx)
		return err
	})
	if out == nil {
		out = []customer.Customer{}
	}
	return out, err
}

// Delete removes the customer with its loans and everything recorded
// against those loans, all in one transaction.
func (u *Usecase) Delete(ctx context.Context, customerID string) error {
	var removedLoans int
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		customers, err := r.Customers.All(ctx)
		if err != nil {
			return err
		}
		kept := make([]customer.Customer, 0, len(customers))
		for _, c := range customers {
			if c.ID != customerID {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(customers) {
			return customer.ErrNotFound
		}

		loans, err := r.Loans.All(ctx)
		if err != nil {
			return err
		}
		gone := map[string]struct{}{}
		keptLoans := loans[:0]
		for _, l := range loans {
			if l.CustomerID == customerID {
				gone[l.ID] = struct{}{}
				continue
			}
			keptLoans = append(keptLoans, l)
		}
		removedLoans = len(gone)

		pays, err := r.Payments.All(ctx)
		if err != nil {
			return err
		}
		hist, err := r.History.All(ctx)
		if err != nil {
			return err
		}

		if err := r.Customers.ReplaceAll(ctx, kept); err != nil {
			return err
		}
		if err := r.Loans.ReplaceAll(ctx, keptLoans); err != nil {
			return err
		}
		if err := r.Payments.ReplaceAll(ctx, payment.WithoutLoans(pays, gone)); err != nil {
			return err
		}
		return r.History.ReplaceAll(ctx, interest.WithoutLoans(hist, gone))
	})
	if err != nil {
		return err
	}
	u.log.WithFields(logrus.Fields{"module": moduleName, "customerId": customerID, "loans": removedLoans}).Info("customer deleted")
	return nil
}
