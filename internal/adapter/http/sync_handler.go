package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pawnshop-ledger/internal/domain/record"
	"pawnshop-ledger/internal/usecase/mirrorsync"
)

type SyncHandler struct{ uc *mirrorsync.Usecase }

func NewSyncHandler(uc *mirrorsync.Usecase) *SyncHandler { return &SyncHandler{uc: uc} }

type syncResp struct {
	Error       string              `json:"error,omitempty"`
	Collections []record.SyncResult `json:"collections"`
}

func (h *SyncHandler) respond(c echo.Context, res []record.SyncResult, err error) error {
	if res == nil {
		res = []record.SyncResult{}
	}
	if err != nil {
		return c.JSON(statusOf(err), syncResp{Error: err.Error(), Collections: res})
	}
	return c.JSON(http.StatusOK, syncResp{Collections: res})
}

func (h *SyncHandler) Push(c echo.Context) error {
	res, err := h.uc.Push(c.Request().Context())
	return h.respond(c, res, err)
}

// Pull replaces the local collections with the mirror's copy.
func (h *SyncHandler) Pull(c echo.Context) error {
	res, err := h.uc.Pull(c.Request().Context())
	return h.respond(c, res, err)
}

func (h *SyncHandler) Status(c echo.Context) error {
	st, err := h.uc.Status(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
