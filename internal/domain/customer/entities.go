package customer

import (
	"fmt"

	"pawnshop-ledger/internal/domain/errs"
)

var (
	ErrNotFound     = fmt.Errorf("customer %w", errs.ErrNotFound)
	ErrNameRequired = fmt.Errorf("%w: customer name is required", errs.ErrValidation)
)

// UnknownName is shown in place of a customer that no longer exists.
const UnknownName = "Unknown"

// Customer is one record of the "customers" collection.
type Customer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Address      string `json:"address"`
	GovernmentID string `json:"governmentId"`
}

// Find returns the customer with the given id.
func Find(list []Customer, id string) (Customer, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// NameOf resolves a customer name, falling back to UnknownName for a
// dangling reference.
func NameOf(list []Customer, id string) string {
	if c, ok := Find(list, id); ok {
		return c.Name
	}
	return UnknownName
}
