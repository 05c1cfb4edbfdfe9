package report

import (
	"time"

	"pawnshop-ledger/internal/domain/interest"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
)

// LoanReport is everything the counter shows for one loan. Amounts are
// rounded to paise; Display carries them formatted in rupees.
type LoanReport struct {
	Loan               loan.Loan         `json:"loan"`
	CustomerName       string            `json:"customerName"`
	AsOf               time.Time         `json:"asOf"`
	MonthsActive       int               `json:"monthsActive"`
	MonthlyRatePercent float64           `json:"monthlyRatePercent"`
	Principal          float64           `json:"principal"`
	Outstanding        float64           `json:"outstanding"`
	TotalPaid          float64           `json:"totalPaid"`
	InterestAccrued    float64           `json:"interestAccrued"`
	Display            Amounts           `json:"display"`
	History            []CycleGroup      `json:"history"`
	Payments           []payment.Payment `json:"payments"`
}

type Amounts struct {
	Principal       string `json:"principal"`
	Outstanding     string `json:"outstanding"`
	TotalPaid       string `json:"totalPaid"`
	InterestAccrued string `json:"interestAccrued"`
}

// CycleGroup is one capitalization cycle of the interest history.
type CycleGroup struct {
	Cycle      int              `json:"cycle"`
	FirstMonth int              `json:"firstMonth"`
	LastMonth  int              `json:"lastMonth"`
	Entries    []interest.Entry `json:"entries"`
}
