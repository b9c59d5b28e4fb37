package dto

import (
	"github.com/alceillini1999/Zaad.POS/internal/model"

	"github.com/shopspring/decimal"
)

type CreateDeliveryRequest struct {
	OrderNo     string            `json:"orderNo"`
	ClientName  string            `json:"clientName"`
	ClientPhone string            `json:"clientPhone"`
	Items       []SaleItemRequest `json:"items"  validate:"required,min=1,dive"`
	Total       decimal.Decimal   `json:"total"  validate:"min=0"`
	Profit      decimal.Decimal   `json:"profit"`
	Note        string            `json:"note"`
}

type PayDeliveryRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	// PaymentDate is the local calendar date (YYYY-MM-DD) the customer paid.
	// The sale is back-dated to that day, not the order day.
	PaymentDate string `json:"paymentDate"`
}

type DeliveryRow struct {
	ID          string           `json:"id"`
	CreatedAt   string           `json:"createdAt"`
	OrderNo     string           `json:"orderNo"`
	ClientName  string           `json:"clientName"`
	ClientPhone string           `json:"clientPhone"`
	ItemsCount  int              `json:"itemsCount"`
	Total       decimal.Decimal  `json:"total"`
	Profit      decimal.Decimal  `json:"profit"`
	Items       []model.SaleItem `json:"items"`
	Note        string           `json:"note"`
	Status      string           `json:"status"`
}

type DeliveryListResponse struct {
	Rows  []DeliveryRow `json:"rows"`
	Total int           `json:"total"`
}
