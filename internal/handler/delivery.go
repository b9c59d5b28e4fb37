package handler

import (
	"net/http"
	"strconv"

	"github.com/alceillini1999/Zaad.POS/internal/apierror"
	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct{ svc service.DeliveryService }

func NewDeliveryHandler(svc service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

func (h *DeliveryHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveryHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Create(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// Pay converts an unpaid delivery order into a sale. The :id is the sheet
// row index the order was listed under.
func (h *DeliveryHandler) Pay(c *gin.Context) {
	rowID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.PayDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Pay(c.Request.Context(), rowID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
