package payment

import (
	"fmt"
	"sort"
	"time"

	"pawnshop-ledger/internal/domain/errs"
)

var (
	ErrNotFound          = fmt.Errorf("payment %w", errs.ErrNotFound)
	ErrLoanNotRegistered = fmt.Errorf("%w: loan does not exist", errs.ErrValidation)
	ErrDateRequired      = fmt.Errorf("%w: payment date is required", errs.ErrValidation)
)

// Common payment tags. Type is free-form; these are the ones the counter
// uses.
const (
	TypeInterest   = "interest"
	TypeRedemption = "redemption"
)

// Payment is one record of the "payments" collection.
type Payment struct {
	ID     string    `json:"id"`
	LoanID string    `json:"loanId"`
	Date   time.Time `json:"date"`
	Type   string    `json:"type"`
	Amount float64   `json:"amount"`
}

// ForLoan filters list down to the payments of one loan, keeping order.
func ForLoan(list []Payment, loanID string) []Payment {
	var out []Payment
	for _, p := range list {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out
}

// Total sums the amounts of list.
func Total(list []Payment) float64 {
	var sum float64
	for _, p := range list {
		sum += p.Amount
	}
	return sum
}

// NewestFirst sorts list in place by date, most recent first.
func NewestFirst(list []Payment) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
}

// WithoutLoans drops the payments of the given loans.
func WithoutLoans(list []Payment, loanIDs map[string]struct{}) []Payment {
	out := make([]Payment, 0, len(list))
	for _, p := range list {
		if _, gone := loanIDs[p.LoanID]; !gone {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the payment with the given id.
func Find(list []Payment, id string) (Payment, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Payment{}, false
}
