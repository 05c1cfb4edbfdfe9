package loan

import (
	"time"

	"pawnshop-ledger/internal/domain/loan"
)

type Input struct {
	CustomerID          string
	BillNumber          string
	LoanType            loan.Type
	OrnamentWeightGrams float64
	PrincipalAmount     float64
	StartDate           time.Time
}

// Summary is a loan as listed at the counter.
type Summary struct {
	loan.Loan
	CustomerName string  `json:"customerName"`
	Outstanding  float64 `json:"outstanding"`
}
