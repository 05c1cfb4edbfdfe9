package accrual

import "time"

type Balance struct {
	LoanID          string    `json:"loanId"`
	AsOf            time.Time `json:"asOf"`
	ElapsedMonths   int       `json:"elapsedMonths"`
	Principal       float64   `json:"principal"`
	AccruedInterest float64   `json:"accruedInterest"`
	TotalPaid       float64   `json:"totalPaid"`
	Outstanding     float64   `json:"outstanding"`
}
