package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pawnshop-ledger/internal/usecase/customer"
)

type CustomerHandler struct{ uc *customer.Usecase }

func NewCustomerHandler(uc *customer.Usecase) *CustomerHandler { return &CustomerHandler{uc: uc} }

func (h *CustomerHandler) Create(c echo.Context) error {
	var req customer.Input
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CustomerHandler) Update(c echo.Context) error {
	var req customer.Input
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes the customer together with their loans, payments and
// interest history.
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
