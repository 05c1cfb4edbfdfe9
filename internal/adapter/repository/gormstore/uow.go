package gormstore

import (
	"context"

	"gorm.io/gorm"

	"pawnshop-ledger/internal/domain/record"
	"pawnshop-ledger/internal/domain/uow"
)

// CommitHook runs after a transaction commits, with the collections it
// wrote in record.All order.
type CommitHook func(ctx context.Context, written []record.Collection)

type GormUoW struct {
	db       *gorm.DB
	onCommit CommitHook
}

var _ uow.UnitOfWork = (*GormUoW)(nil)

func NewGormUoW(db *gorm.DB, onCommit CommitHook) *GormUoW {
	return &GormUoW{db: db, onCommit: onCommit}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	touched := make(map[record.Collection]struct{})
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(&Store{db: tx, touched: touched}))
	})
	if err != nil {
		return err
	}

	if u.onCommit != nil && len(touched) > 0 {
		written := make([]record.Collection, 0, len(touched))
		for _, c := range record.All {
			if _, ok := touched[c]; ok {
				written = append(written, c)
			}
		}
		u.onCommit(ctx, written)
	}
	return nil
}

func reposFor(s record.Store) uow.Repos {
	return uow.Repos{
		Customers: NewCustomerRepository(s),
		Loans:     NewLoanRepository(s),
		Payments:  NewPaymentRepository(s),
		History:   NewHistoryRepository(s),
	}
}
