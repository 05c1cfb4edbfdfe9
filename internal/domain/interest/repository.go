package interest

import "context"

type Repository interface {
	All(ctx context.Context) ([]Entry, error)
	ReplaceAll(ctx context.Context, list []Entry) error
}
