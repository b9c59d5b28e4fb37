package dto

import (
	"encoding/json"

	"github.com/alceillini1999/Zaad.POS/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OpenDayRequest starts the cash day for a calendar date. Employee is kept as
// a raw object: the POS frontends disagree on its field names, so the service
// extracts id/name with fallbacks instead of binding strictly.
type OpenDayRequest struct {
	Date             string                   `json:"date"             validate:"required"`
	OpeningCashTotal decimal.Decimal          `json:"openingCashTotal" validate:"min=0"`
	TillNo           string                   `json:"tillNo"           validate:"required"`
	MpesaWithdrawal  decimal.Decimal          `json:"mpesaWithdrawal"  validate:"min=0"`
	CashBreakdown    []model.CashDenomination `json:"cashBreakdown"`
	Employee         json.RawMessage          `json:"employee"`
	OpenID           string                   `json:"openId"`
	OpenedAt         string                   `json:"openedAt"`
}

type CloseDayRequest struct {
	Date             string                   `json:"date"             validate:"required"`
	OpenID           string                   `json:"openId"`
	ClosingCashTotal decimal.Decimal          `json:"closingCashTotal" validate:"min=0"`
	CashBreakdown    []model.CashDenomination `json:"cashBreakdown"`
	Employee         json.RawMessage          `json:"employee"`
	ClosedAt         string                   `json:"closedAt"`
}

// ManualWithdrawal is a client-tracked ad hoc removal from one bucket,
// submitted only for reconciliation arithmetic — never persisted here.
type ManualWithdrawal struct {
	Source string          `json:"source" validate:"required,oneof=cash till withdrawal send_money"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   string          `json:"note"`
}

type ReconcileRequest struct {
	Date        string             `json:"date" validate:"required"`
	OpeningCash *decimal.Decimal   `json:"openingCash"`
	OpeningTill *decimal.Decimal   `json:"openingTill"`
	Withdrawals []ManualWithdrawal `json:"withdrawals" validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OpenDayResponse struct {
	OK     bool   `json:"ok"`
	OpenID string `json:"openId"`
}

type CashOpenRow struct {
	Date             string                   `json:"date"`
	OpenID           string                   `json:"openId"`
	OpenedAt         string                   `json:"openedAt"`
	EmployeeID       string                   `json:"employeeId"`
	EmployeeName     string                   `json:"employeeName"`
	TillNo           string                   `json:"tillNo"`
	MpesaWithdrawal  decimal.Decimal          `json:"mpesaWithdrawal"`
	OpeningCashTotal decimal.Decimal          `json:"openingCashTotal"`
	CashBreakdown    []model.CashDenomination `json:"cashBreakdown"`
}

type CashTodayResponse struct {
	OK    bool         `json:"ok"`
	Found bool         `json:"found"`
	Row   *CashOpenRow `json:"row,omitempty"`
}

// BucketAmounts carries one figure per payment bucket.
type BucketAmounts struct {
	Cash       decimal.Decimal `json:"cash"`
	Till       decimal.Decimal `json:"till"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
	SendMoney  decimal.Decimal `json:"send_money"`
}

type ExpectedBalances struct {
	Cash       decimal.Decimal `json:"cash"`
	Till       decimal.Decimal `json:"till"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
	SendMoney  decimal.Decimal `json:"send_money"`
	Total      decimal.Decimal `json:"total"`
}

type ReconcileResponse struct {
	OK        bool             `json:"ok"`
	Date      string           `json:"date"`
	Opening   BucketAmounts    `json:"opening"`
	Sales     BucketAmounts    `json:"sales"`
	Withdrawn BucketAmounts    `json:"withdrawn"`
	Expected  ExpectedBalances `json:"expected"`
}
