package loan

import "context"

type Repository interface {
	All(ctx context.Context) ([]Loan, error)
	ReplaceAll(ctx context.Context, list []Loan) error
}
