package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusUnpaid is the only status a delivery order ever carries: paid orders
// are converted into a Sale and removed from the delivery tab, never marked.
const StatusUnpaid = "UNPAID"

// DeliveryOrder is an unpaid order awaiting payment. It exists only while
// unpaid; payment converts it into a Sale exactly once.
type DeliveryOrder struct {
	RowIndex    int // 1-based sheet row — the order's id on the wire
	CreatedAt   string
	Timestamp   time.Time
	TimestampOK bool

	OrderNo     string
	ClientName  string
	ClientPhone string
	ItemsCount  int
	Total       decimal.Decimal
	Profit      decimal.Decimal
	Items       []SaleItem
	Note        string
	Status      string
}
