package loan

import (
	"fmt"
	"time"

	"pawnshop-ledger/internal/domain/errs"
)

var (
	ErrNotFound              = fmt.Errorf("loan %w", errs.ErrNotFound)
	ErrInvalidLoanType       = fmt.Errorf("%w: loan type must be gold or silver", errs.ErrValidation)
	ErrDuplicateBillNumber   = fmt.Errorf("%w: bill number already exists", errs.ErrValidation)
	ErrBillNumberRequired    = fmt.Errorf("%w: bill number is required", errs.ErrValidation)
	ErrNonPositivePrincipal  = fmt.Errorf("%w: principal amount must be positive", errs.ErrValidation)
	ErrStartDateRequired     = fmt.Errorf("%w: start date is required", errs.ErrValidation)
	ErrCustomerNotRegistered = fmt.Errorf("%w: customer does not exist", errs.ErrValidation)
)

// Type is the ornament metal pledged against a loan. It decides the
// monthly interest rate.
type Type string

const (
	TypeGold   Type = "gold"
	TypeSilver Type = "silver"
)

var monthlyRates = map[Type]float64{
	TypeGold:   0.02,
	TypeSilver: 0.03,
}

// MonthlyRate returns the simple monthly interest rate for t.
func (t Type) MonthlyRate() (float64, error) {
	r, ok := monthlyRates[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLoanType, string(t))
	}
	return r, nil
}

func (t Type) Valid() bool {
	_, ok := monthlyRates[t]
	return ok
}

// Loan is one record of the "loans" collection.
type Loan struct {
	ID                  string    `json:"id"`
	CustomerID          string    `json:"customerId"`
	BillNumber          string    `json:"billNumber"`
	LoanType            Type      `json:"loanType"`
	OrnamentWeightGrams float64   `json:"ornamentWeightGrams"`
	PrincipalAmount     float64   `json:"principalAmount"`
	StartDate           time.Time `json:"startDate"`
}

// Validate checks the record-level invariants that do not need the rest
// of the collection.
func (l Loan) Validate() error {
	if l.BillNumber == "" {
		return ErrBillNumberRequired
	}
	if !l.LoanType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLoanType, string(l.LoanType))
	}
	if l.PrincipalAmount <= 0 {
		return ErrNonPositivePrincipal
	}
	if l.StartDate.IsZero() {
		return ErrStartDateRequired
	}
	return nil
}

// BillNumberTaken reports whether another loan than exceptID already
// uses billNumber. The comparison is exact and case-sensitive.
func BillNumberTaken(list []Loan, billNumber, exceptID string) bool {
	for _, l := range list {
		if l.BillNumber == billNumber && l.ID != exceptID {
			return true
		}
	}
	return false
}

// Find returns the loan with the given id.
func Find(list []Loan, id string) (Loan, bool) {
	for _, l := range list {
		if l.ID == id {
			return l, true
		}
	}
	return Loan{}, false
}
