package payment

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
	"pawnshop-ledger/internal/domain/loan"
	domain "pawnshop-ledger/internal/domain/payment"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/testutil/sqlitetest"
)

func d(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

func newUsecase(t *testing.T) (*Usecase, uow.UnitOfWork) {
	t.Helper()
	tx := gormstore.NewGormUoW(sqlitetest.Open(t), nil)
	ctx := context.Background()
	err := tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Customers.ReplaceAll(ctx, []customer.Customer{{ID: "c1", Name: "Farah"}}); err != nil {
			return err
		}
		return r.Loans.ReplaceAll(ctx, []loan.Loan{
			{ID: "L1", CustomerID: "c1", BillNumber: "G-1", LoanType: loan.TypeGold, PrincipalAmount: 1000, StartDate: d(2024, 1, 1)},
			{ID: "L2", CustomerID: "gone", BillNumber: "G-2", LoanType: loan.TypeGold, PrincipalAmount: 1000, StartDate: d(2024, 1, 1)},
		})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewUsecase(tx, log), tx
}

func TestCreate_RequiresLoanAndDate(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	if _, err := uc.Create(ctx, Input{LoanID: "nope", Date: d(2024, 2, 1), Amount: 10}); !errors.Is(err, domain.ErrLoanNotRegistered) {
		t.Fatalf("unknown loan err = %v", err)
	}
	if _, err := uc.Create(ctx, Input{LoanID: "L1", Amount: 10}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("no date err = %v", err)
	}

	p, err := uc.Create(ctx, Input{LoanID: "L1", Date: d(2024, 2, 1), Type: " interest ", Amount: 2000000})
	if err != nil {
		t.Fatalf("Create over-payment: %v", err)
	}
	if p.Type != domain.TypeInterest || p.Amount != 2000000 {
		t.Fatalf("created = %+v", p)
	}
}

func TestUpdateGetDelete(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	p, _ := uc.Create(ctx, Input{LoanID: "L1", Date: d(2024, 2, 1), Type: "interest", Amount: 100})

	if _, err := uc.Update(ctx, p.ID, Input{LoanID: "L1", Date: d(2024, 2, 3), Type: "redemption", Amount: 150}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := uc.Get(ctx, p.ID)
	if err != nil || got.Amount != 150 || got.Type != "redemption" || !got.Date.Equal(d(2024, 2, 3)) {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := uc.Update(ctx, p.ID, Input{LoanID: "zzz", Date: d(2024, 2, 3)}); !errors.Is(err, domain.ErrLoanNotRegistered) {
		t.Fatalf("Update to unknown loan err = %v", err)
	}
	if _, err := uc.Update(ctx, "missing", Input{LoanID: "L1", Date: d(2024, 2, 3)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update missing err = %v", err)
	}

	if err := uc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := uc.Get(ctx, p.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	if err := uc.Delete(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestList_NewestFirstWithNames(t *testing.T) {
	uc, tx := newUsecase(t)
	ctx := context.Background()

	_, _ = uc.Create(ctx, Input{LoanID: "L1", Date: d(2024, 2, 1), Amount: 1})
	_, _ = uc.Create(ctx, Input{LoanID: "L2", Date: d(2024, 4, 1), Amount: 2})
	_, _ = uc.Create(ctx, Input{LoanID: "L1", Date: d(2024, 3, 1), Amount: 3})
	// a payment whose loan has since vanished
	_ = tx.WithinTx(ctx, func(r uow.Repos) error {
		list, _ := r.Payments.All(ctx)
		return r.Payments.ReplaceAll(ctx, append(list, domain.Payment{ID: "orphan", LoanID: "L9", Date: d(2023, 1, 1), Amount: 4}))
	})

	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("len = %d", len(list))
	}
	wantAmounts := []float64{2, 3, 1, 4}
	for i, w := range wantAmounts {
		if list[i].Amount != w {
			t.Fatalf("list[%d].Amount = %v, want %v", i, list[i].Amount, w)
		}
	}
	if list[0].BillNumber != "G-2" || list[0].CustomerName != customer.UnknownName {
		t.Fatalf("L2 view = %+v", list[0])
	}
	if list[1].BillNumber != "G-1" || list[1].CustomerName != "Farah" {
		t.Fatalf("L1 view = %+v", list[1])
	}
	if list[3].BillNumber != customer.UnknownName || list[3].CustomerName != customer.UnknownName {
		t.Fatalf("orphan view = %+v", list[3])
	}
}
