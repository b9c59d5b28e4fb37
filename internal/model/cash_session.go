package model

import "github.com/shopspring/decimal"

// CashDenomination is one line of the drawer count: a note/coin value, how
// many of it, and the resulting amount.
type CashDenomination struct {
	Denom  decimal.Decimal `json:"denom"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// CashOpen brackets the start of one calendar day of drawer activity.
// Open records are append-only audit rows — never mutated or deleted.
// At most one open per date, enforced by a pre-check read before append.
type CashOpen struct {
	Date             string // YYYY-MM-DD
	OpenID           string
	OpenedAt         string
	EmployeeID       string
	EmployeeName     string
	TillNo           string
	MpesaWithdrawal  decimal.Decimal // opening till float
	OpeningCashTotal decimal.Decimal
	CashBreakdown    []CashDenomination
}

// CashClose brackets the end of the day. OpenID references the matching open
// record; a close without one is a data-quality warning, not an error.
type CashClose struct {
	Date             string
	OpenID           string
	ClosedAt         string
	EmployeeID       string
	EmployeeName     string
	ClosingCashTotal decimal.Decimal
	CashBreakdown    []CashDenomination
}
