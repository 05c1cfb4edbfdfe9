package loan

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"pawnshop-ledger/internal/adapter/repository/gormstore"
	"pawnshop-ledger/internal/domain/customer"
	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/interest"
	domain "pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/record"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/testutil/loanmock"
	"pawnshop-ledger/internal/testutil/sqlitetest"
	"pawnshop-ledger/internal/testutil/uowmock"
)

var day = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

// ----- test doubles -----

type balanceFn func(ctx context.Context, l domain.Loan, asOf time.Time) (float64, error)

func (f balanceFn) ComputeOutstandingBalance(ctx context.Context, l domain.Loan, asOf time.Time) (float64, error) {
	return f(ctx, l, asOf)
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	uc    *Usecase
	uow   uow.UnitOfWork
	store *gormstore.Store
}

func newFixture(t *testing.T, bal BalanceCalculator) *fixture {
	t.Helper()
	db := sqlitetest.Open(t)
	tx := gormstore.NewGormUoW(db, nil)
	if bal == nil {
		bal = balanceFn(func(context.Context, domain.Loan, time.Time) (float64, error) { return 0, nil })
	}
	f := &fixture{uc: NewUsecase(tx, bal, quietLog()), uow: tx, store: gormstore.NewStore(db)}

	err := tx.WithinTx(context.Background(), func(r uow.Repos) error {
		return r.Customers.ReplaceAll(context.Background(), []customer.Customer{{ID: "c1", Name: "Meena"}, {ID: "c2", Name: "Ravi"}})
	})
	if err != nil {
		t.Fatalf("seed customers: %v", err)
	}
	return f
}

func input(bill string) Input {
	return Input{
		CustomerID:          "c1",
		BillNumber:          bill,
		LoanType:            domain.TypeGold,
		OrnamentWeightGrams: 8,
		PrincipalAmount:     50000,
		StartDate:           day,
	}
}

// ----- tests -----

func TestCreate_Success(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	in := input(" B-100 ")
	in.LoanType = "GOLD"
	l, err := f.uc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if l.BillNumber != "B-100" || l.LoanType != domain.TypeGold || l.ID == "" {
		t.Fatalf("created = %+v", l)
	}
	got, err := f.uc.Get(ctx, l.ID)
	if err != nil || got.BillNumber != "B-100" || !got.StartDate.Equal(day) {
		t.Fatalf("Get = %+v, %v", got, err)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		want   error
	}{
		{"bad type", func(in *Input) { in.LoanType = "platinum" }, domain.ErrInvalidLoanType},
		{"zero principal", func(in *Input) { in.PrincipalAmount = 0 }, domain.ErrNonPositivePrincipal},
		{"negative principal", func(in *Input) { in.PrincipalAmount = -5 }, domain.ErrNonPositivePrincipal},
		{"blank bill", func(in *Input) { in.BillNumber = "  " }, domain.ErrBillNumberRequired},
		{"no start date", func(in *Input) { in.StartDate = time.Time{} }, domain.ErrStartDateRequired},
		{"unknown customer", func(in *Input) { in.CustomerID = "ghost" }, domain.ErrCustomerNotRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			in := input("B-1")
			tt.mutate(&in)
			_, err := f.uc.Create(context.Background(), in)
			if !errors.Is(err, tt.want) || !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			raw, _ := f.store.Read(context.Background(), record.Loans)
			if string(raw) != "[]" {
				t.Fatalf("loans written despite error: %s", raw)
			}
		})
	}
}

func TestCreate_DuplicateBillLeavesCollectionUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.uc.Create(ctx, input("B-7")); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	before, _ := f.store.Read(ctx, record.Loans)

	dup := input("B-7")
	dup.CustomerID = "c2"
	if _, err := f.uc.Create(ctx, dup); !errors.Is(err, domain.ErrDuplicateBillNumber) {
		t.Fatalf("dup err = %v", err)
	}
	after, _ := f.store.Read(ctx, record.Loans)
	if string(before) != string(after) {
		t.Fatalf("loans changed:\n%s\n%s", before, after)
	}

	// bill numbers are case-sensitive
	if _, err := f.uc.Create(ctx, input("b-7")); err != nil {
		t.Fatalf("case-different bill rejected: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, _ := f.uc.Create(ctx, input("A-1"))
	if _, err := f.uc.Create(ctx, input("A-2")); err != nil {
		t.Fatalf("Create A-2: %v", err)
	}

	// keeping its own bill number is fine
	in := input("A-1")
	in.PrincipalAmount = 75000
	got, err := f.uc.Update(ctx, a.ID, in)
	if err != nil || got.PrincipalAmount != 75000 || got.ID != a.ID {
		t.Fatalf("Update = %+v, %v", got, err)
	}

	if _, err := f.uc.Update(ctx, a.ID, input("A-2")); !errors.Is(err, domain.ErrDuplicateBillNumber) {
		t.Fatalf("Update to taken bill err = %v", err)
	}
	if _, err := f.uc.Update(ctx, "nope", input("Z")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update missing err = %v", err)
	}

	stored, _ := f.uc.Get(ctx, a.ID)
	if stored.BillNumber != "A-1" || stored.PrincipalAmount != 75000 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestList_NamesAndBalances(t *testing.T) {
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bal := balanceFn(func(_ context.Context, l domain.Loan, gotAsOf time.Time) (float64, error) {
		if !gotAsOf.Equal(asOf) {
			t.Fatalf("asOf = %v", gotAsOf)
		}
		if l.BillNumber == "BAD" {
			return 0, domain.ErrInvalidLoanType
		}
		return l.PrincipalAmount + 1, nil
	})
	f := newFixture(t, bal)
	ctx := context.Background()

	err := f.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.ReplaceAll(ctx, []domain.Loan{
			{ID: "L1", CustomerID: "c1", BillNumber: "1", LoanType: domain.TypeGold, PrincipalAmount: 100, StartDate: day},
			{ID: "L2", CustomerID: "gone", BillNumber: "2", LoanType: domain.TypeSilver, PrincipalAmount: 200, StartDate: day},
			{ID: "L3", CustomerID: "c2", BillNumber: "BAD", LoanType: "tin", PrincipalAmount: 300, StartDate: day},
		})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := f.uc.List(ctx, asOf)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].CustomerName != "Meena" || list[0].Outstanding != 101 {
		t.Fatalf("L1 = %+v", list[0])
	}
	if list[1].CustomerName != customer.UnknownName || list[1].Outstanding != 201 {
		t.Fatalf("L2 = %+v", list[1])
	}
	if list[2].Outstanding != 0 {
		t.Fatalf("L3 = %+v", list[2])
	}
}

func TestDelete_CascadesPaymentsAndHistory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, _ := f.uc.Create(ctx, input("D-1"))
	b, _ := f.uc.Create(ctx, input("D-2"))
	err := f.uow.WithinTx(ctx, func(r uow.Repos) error {
		_ = r.Payments.ReplaceAll(ctx, []payment.Payment{{ID: "p1", LoanID: a.ID}, {ID: "p2", LoanID: b.ID}})
		return r.History.ReplaceAll(ctx, []interest.Entry{{ID: "h1", LoanID: a.ID}, {ID: "h2", LoanID: b.ID}})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.uc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_ = f.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, _ := r.Loans.All(ctx)
		pays, _ := r.Payments.All(ctx)
		hist, _ := r.History.All(ctx)
		if len(loans) != 1 || loans[0].ID != b.ID {
			t.Fatalf("loans = %+v", loans)
		}
		if len(pays) != 1 || pays[0].ID != "p2" {
			t.Fatalf("payments = %+v", pays)
		}
		if len(hist) != 1 || hist[0].ID != "h2" {
			t.Fatalf("history = %+v", hist)
		}
		return nil
	})

	if err := f.uc.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestCreate_StorageFailurePropagates(t *testing.T) {
	sentinel := errors.New("disk full")
	loans := &loanmock.Repo{
		ReplaceAllFn: func(context.Context, []domain.Loan) error { return sentinel },
	}
	customers := gormstore.NewCustomerRepository(gormstore.NewStore(sqlitetest.Open(t)))
	_ = customers.ReplaceAll(context.Background(), []customer.Customer{{ID: "c1", Name: "x"}})

	tx := uowmock.WithRepos(uow.Repos{Customers: customers, Loans: loans})
	uc := NewUsecase(tx, nil, quietLog())

	if _, err := uc.Create(context.Background(), input("S-1")); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
}
