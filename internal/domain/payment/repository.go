package payment

import "context"

type Repository interface {
	All(ctx context.Context) ([]Payment, error)
	ReplaceAll(ctx context.Context, list []Payment) error
}
