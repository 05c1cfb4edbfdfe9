package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/loan"
)

const dateLayout = "2006-01-02"

// ---- helpers ----

// parseDate reads a validated YYYY-MM-DD string as midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// asOf reads the optional as_of query parameter, defaulting to today.
func asOf(c echo.Context, now func() time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam("as_of"))
	if raw == "" {
		return now().UTC(), nil
	}
	return parseDate(raw)
}

// bindAndValidate binds the JSON body into req and runs the validator.
// On failure the error response has already been written and ok is false.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// statusOf maps an error kind to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, loan.ErrDuplicateBillNumber):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConfiguration):
		return http.StatusPreconditionFailed
	case errors.Is(err, errs.ErrStorage):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Map domain errors → HTTP codes
func respondError(c echo.Context, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
