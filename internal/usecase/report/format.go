package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const currency = money.INR

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatINR renders v in rupees with two decimals and thousands
// separators, e.g. "₹124,000.00".
func FormatINR(v float64) string {
	cur := money.GetCurrency(currency)
	amount := decimal.NewFromFloat(v).Round(int32(cur.Fraction))
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).IntPart(), currency).Display()
}
