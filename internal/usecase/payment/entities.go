package payment

import (
	"time"

	"pawnshop-ledger/internal/domain/payment"
)

type Input struct {
	LoanID string
	Date   time.Time
	Type   string
	Amount float64
}

// View is a payment as listed at the counter.
type View struct {
	payment.Payment
	BillNumber   string `json:"billNumber"`
	CustomerName string `json:"customerName"`
}
