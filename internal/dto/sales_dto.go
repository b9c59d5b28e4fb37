package dto

import (
	"github.com/alceillini1999/Zaad.POS/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	Name  string          `json:"name"  validate:"required"`
	Qty   int             `json:"qty"   validate:"required,min=1"`
	Price decimal.Decimal `json:"price" validate:"min=0"`
	Cost  decimal.Decimal `json:"cost"  validate:"min=0"`
}

type RecordSaleRequest struct {
	ClientName    string            `json:"clientName"`
	ClientPhone   string            `json:"clientPhone"`
	PaymentMethod string            `json:"paymentMethod"`
	Items         []SaleItemRequest `json:"items"     validate:"required,min=1,dive"`
	Total         decimal.Decimal   `json:"total"     validate:"min=0"`
	Profit        decimal.Decimal   `json:"profit"`
	AddPoints     int               `json:"addPoints" validate:"min=0"`
}

type SalesQuery struct {
	Page  int
	Limit int
	Q     string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// RecordSaleResponse returns the minted invoice number. InvoiceNumber is a
// legacy alias the older POS UI still reads.
type RecordSaleResponse struct {
	OK            bool   `json:"ok"`
	InvoiceNo     string `json:"invoiceNo"`
	InvoiceNumber string `json:"invoiceNumber"`
}

type SaleRow struct {
	ID            string           `json:"id"`
	CreatedAt     string           `json:"createdAt"`
	InvoiceNo     string           `json:"invoiceNo"`
	InvoiceNumber string           `json:"invoiceNumber"`
	ClientName    string           `json:"clientName"`
	ClientPhone   string           `json:"clientPhone"`
	PaymentMethod string           `json:"paymentMethod"`
	ItemsCount    int              `json:"itemsCount"`
	Total         decimal.Decimal  `json:"total"`
	Profit        decimal.Decimal  `json:"profit"`
	Items         []model.SaleItem `json:"items"`
	// GeneratedInvoiceNo marks rows whose stored invoice cell is empty and
	// whose number was derived for display only.
	GeneratedInvoiceNo bool `json:"_generatedInvoiceNo,omitempty"`
}

type SalesListResponse struct {
	Rows      []SaleRow `json:"rows"`
	Count     int       `json:"count"`
	Total     int       `json:"total"`
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	PageCount int       `json:"pageCount"`
}
