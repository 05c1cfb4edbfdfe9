package loanmock

import (
	"context"

	domain "pawnshop-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// With no functions set it behaves as an in-memory collection in Loans.
type Repo struct {
	AllFn        func(ctx context.Context) ([]domain.Loan, error)
	ReplaceAllFn func(ctx context.Context, list []domain.Loan) error

	Loans    []domain.Loan
	Replaced int
}

func (m *Repo) All(ctx context.Context) ([]domain.Loan, error) {
	if m.AllFn != nil {
		return m.AllFn(ctx)
	}
	return append([]domain.Loan(nil), m.Loans...), nil
}

func (m *Repo) ReplaceAll(ctx context.Context, list []domain.Loan) error {
	if m.ReplaceAllFn != nil {
		return m.ReplaceAllFn(ctx, list)
	}
	m.Loans = append([]domain.Loan(nil), list...)
	m.Replaced++
	return nil
}
