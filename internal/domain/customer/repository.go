package customer

import "context"

// Repository gives whole-collection access to customers. Writes replace
// the collection.
type Repository interface {
	All(ctx context.Context) ([]Customer, error)
	ReplaceAll(ctx context.Context, list []Customer) error
}
