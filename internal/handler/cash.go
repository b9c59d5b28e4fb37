package handler

import (
	"net/http"

	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/service"

	"github.com/gin-gonic/gin"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Open starts the cash day. One open per date: a second attempt gets 409
// with the openId of the session that already owns the date.
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenDayRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseDayRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Close(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// Today returns the open record for ?date= (default: today). found:false is
// a normal 200 — the till uses it to decide whether to show the open-day form.
func (h *CashHandler) Today(c *gin.Context) {
	resp, err := h.svc.Today(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reconcile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
