package uow

import (
	"context"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
)

// Repos bundles the collection repositories. Inside WithinTx they are
// bound to the transaction.
type Repos struct {
	Customers customer.Repository
	Loans     loan.Repository
	Payments  payment.Repository
	History   interest.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in one transaction; every collection written by fn
	// is committed together or not at all.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
