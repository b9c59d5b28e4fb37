package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line of a sale or delivery order.
type SaleItem struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// Sale is one completed, paid transaction in the sales ledger. Rows are
// created once at payment time and never mutated or deleted.
//
// CreatedAt holds the raw timestamp cell as stored (ISO string, epoch millis
// or sheet serial number rendered as text); Timestamp is the parsed value,
// with TimestampOK false for legacy rows whose cell cannot be parsed.
type Sale struct {
	RowIndex    int // 1-based sheet row, 0 for sales not yet persisted
	CreatedAt   string
	Timestamp   time.Time
	TimestampOK bool

	InvoiceNo     string
	ClientName    string
	ClientPhone   string
	PaymentMethod string
	ItemsCount    int
	Total         decimal.Decimal
	Profit        decimal.Decimal
	Items         []SaleItem
}
