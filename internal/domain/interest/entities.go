package interest

import (
	"sort"
	"time"
)

// Entry is one month of accrual for a loan, persisted in the
// "interest_history" collection. Month is the 1-based sequence index since
// the loan started, not a calendar month; Date is the first day of the
// calendar month the index falls in.
type Entry struct {
	ID                    string    `json:"id"`
	LoanID                string    `json:"loanId"`
	Date                  time.Time `json:"date"`
	Month                 int       `json:"month"`
	PrincipalAtAccrual    float64   `json:"principalAtAccrual"`
	MonthlyInterestAmount float64   `json:"monthlyInterestAmount"`
	AccumulatedInterest   float64   `json:"accumulatedInterestSinceLastCapitalization"`
	Capitalized           bool      `json:"capitalized"`
	NewPrincipal          *float64  `json:"newPrincipal,omitempty"`
}

// Cycle returns the 1-based capitalization cycle the entry belongs to:
// months 1-12 are cycle 1, 13-24 cycle 2 and so on.
func (e Entry) Cycle() int {
	if e.Month < 1 {
		return 0
	}
	return (e.Month-1)/CapitalizationCycle + 1
}

// ForLoan splits list into the entries of loanID and everything else,
// preserving order in both.
func ForLoan(list []Entry, loanID string) (mine, others []Entry) {
	for _, e := range list {
		if e.LoanID == loanID {
			mine = append(mine, e)
		} else {
			others = append(others, e)
		}
	}
	return mine, others
}

// SortByDate orders list oldest first.
func SortByDate(list []Entry) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
}

// WithoutLoans drops the entries of the given loans.
func WithoutLoans(list []Entry, loanIDs map[string]struct{}) []Entry {
	out := make([]Entry, 0, len(list))
	for _, e := range list {
		if _, gone := loanIDs[e.LoanID]; !gone {
			out = append(out, e)
		}
	}
	return out
}
