package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pawnshop-ledger/internal/usecase/payment"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

// Amount is taken as sent; over-payment is allowed.
type paymentReq struct {
	LoanID string  `json:"loanId" validate:"required,recordid"`
	Date   string  `json:"date"   validate:"required,datetime=2006-01-02"`
	Type   string  `json:"type"   validate:"required,max=30"`
	Amount float64 `json:"amount"`
}

func (h *PaymentHandler) bind(c echo.Context) (payment.Input, bool, error) {
	var req paymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return payment.Input{}, false, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return payment.Input{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}
	return payment.Input{LoanID: req.LoanID, Date: date, Type: req.Type, Amount: req.Amount}, true, nil
}

func (h *PaymentHandler) Create(c echo.Context) error {
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

func (h *PaymentHandler) Update(c echo.Context) error {
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

func (h *PaymentHandler) Get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// List returns all payments newest first.
func (h *PaymentHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
