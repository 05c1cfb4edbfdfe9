package gormstore

import (
	"context"

	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/record"
)

// collectionRepo is a typed view over one collection of a record.Store.
type collectionRepo[T any] struct {
	store record.Store
	c     record.Collection
}

func (r collectionRepo[T]) All(ctx context.Context) ([]T, error) {
	return record.Decode[T](ctx, r.store, r.c)
}

func (r collectionRepo[T]) ReplaceAll(ctx context.Context, list []T) error {
	return record.Encode(ctx, r.store, r.c, list)
}

var (
	_ customer.Repository = collectionRepo[customer.Customer]{}
	_ loan.Repository     = collectionRepo[loan.Loan]{}
	_ payment.Repository  = collectionRepo[payment.Payment]{}
	_ interest.Repository = collectionRepo[interest.Entry]{}
)

func NewCustomerRepository(s record.Store) customer.Repository {
	return collectionRepo[customer.Customer]{store: s, c: record.Customers}
}

func NewLoanRepository(s record.Store) loan.Repository {
	return collectionRepo[loan.Loan]{store: s, c: record.Loans}
}

func NewPaymentRepository(s record.Store) payment.Repository {
	return collectionRepo[payment.Payment]{store: s, c: record.Payments}
}

func NewHistoryRepository(s record.Store) interest.Repository {
	return collectionRepo[interest.Entry]{store: s, c: record.InterestHistory}
}
