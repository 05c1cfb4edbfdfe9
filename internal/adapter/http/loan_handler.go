package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	domain "pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/usecase/accrual"
	"pawnshop-ledger/internal/usecase/loan"
	"pawnshop-ledger/internal/usecase/report"
)

type LoanHandler struct {
	uc      *loan.Usecase
	accrual *accrual.Usecase
	reports *report.Usecase
	now     func() time.Time
}

func NewLoanHandler(uc *loan.Usecase, acc *accrual.Usecase, reports *report.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, accrual: acc, reports: reports, now: time.Now}
}

type loanReq struct {
	CustomerID          string  `json:"customerId"          validate:"required,recordid"`
	BillNumber          string  `json:"billNumber"          validate:"required,max=50"`
	LoanType            string  `json:"loanType"            validate:"required,oneof=gold silver"`
	OrnamentWeightGrams float64 `json:"ornamentWeightGrams" validate:"gte=0"`
	PrincipalAmount     float64 `json:"principalAmount"     validate:"required,gt=0,dec2"`
	// Accept canonical date `YYYY-MM-DD`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

func (r loanReq) input() (loan.Input, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return loan.Input{}, err
	}
	return loan.Input{
		CustomerID:          r.CustomerID,
		BillNumber:          r.BillNumber,
		LoanType:            domain.Type(r.LoanType),
		OrnamentWeightGrams: r.OrnamentWeightGrams,
		PrincipalAmount:     r.PrincipalAmount,
		StartDate:           start,
	}, nil
}

func (h *LoanHandler) bind(c echo.Context) (loan.Input, bool, error) {
	var req loanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return loan.Input{}, false, err
	}
	in, err := req.input()
	if err != nil {
		return loan.Input{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid startDate"})
	}
	return in, true, nil
}

func (h *LoanHandler) Create(c echo.Context) error {
	in, ok, err := h.bind(c)
	if !ok {
		return err
	}
	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LoanHandler) Update(c echo.Context) error {
	in, ok, err := h.bind(c)
	if !ok {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// List shows every loan with its customer and outstanding balance as of
// the as_of query parameter (today when absent).
func (h *LoanHandler) List(c echo.Context) error {
	at, err := asOf(c, h.now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	out, err := h.uc.List(c.Request().Context(), at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) Balance(c echo.Context) error {
	at, err := asOf(c, h.now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	out, err := h.accrual.BalanceByID(c.Request().Context(), c.Param("id"), at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) History(c echo.Context) error {
	out, err := h.accrual.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Report(c echo.Context) error {
	at, err := asOf(c, h.now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
	}
	out, err := h.reports.LoanReport(c.Request().Context(), c.Param("id"), at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
