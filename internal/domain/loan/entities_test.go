package loan

import (
	"errors"
	"testing"
	"time"

	"pawnshop-ledger/internal/domain/errs"
)

func TestType_MonthlyRate(t *testing.T) {
	tests := []struct {
		typ     Type
		want    float64
		wantErr error
	}{
		{TypeGold, 0.02, nil},
		{TypeSilver, 0.03, nil},
		{Type("platinum"), 0, ErrInvalidLoanType},
		{Type("Gold"), 0, ErrInvalidLoanType},
		{Type(""), 0, ErrInvalidLoanType},
	}
	for _, tt := range tests {
		got, err := tt.typ.MonthlyRate()
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("%q: err = %v, want %v", tt.typ, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("%q: rate = %v, want %v", tt.typ, got, tt.want)
		}
	}
	if _, err := Type("x").MonthlyRate(); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("invalid type should be a validation error, got %v", err)
	}
}

func TestLoan_Validate(t *testing.T) {
	ok := Loan{
		BillNumber:      "B-1",
		LoanType:        TypeGold,
		PrincipalAmount: 1000,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid loan rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Loan)
		want   error
	}{
		{"no bill", func(l *Loan) { l.BillNumber = "" }, ErrBillNumberRequired},
		{"bad type", func(l *Loan) { l.LoanType = "bronze" }, ErrInvalidLoanType},
		{"zero principal", func(l *Loan) { l.PrincipalAmount = 0 }, ErrNonPositivePrincipal},
		{"negative principal", func(l *Loan) { l.PrincipalAmount = -5 }, ErrNonPositivePrincipal},
		{"no start", func(l *Loan) { l.StartDate = time.Time{} }, ErrStartDateRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ok
			tt.mutate(&l)
			if err := l.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBillNumberTaken(t *testing.T) {
	list := []Loan{{ID: "a", BillNumber: "B-1"}, {ID: "b", BillNumber: "B-2"}}

	if !BillNumberTaken(list, "B-1", "") {
		t.Fatal("B-1 should be taken for a new loan")
	}
	if BillNumberTaken(list, "B-1", "a") {
		t.Fatal("a loan keeping its own bill number is not a collision")
	}
	if !BillNumberTaken(list, "B-2", "a") {
		t.Fatal("B-2 belongs to b, updating a to it must collide")
	}
	if BillNumberTaken(list, "b-1", "") {
		t.Fatal("comparison must be case-sensitive")
	}
}
