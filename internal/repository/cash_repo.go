package repository

import (
	"context"
	"encoding/json"

	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/store"
)

// CashOpen tab layout:
// A: Date | B: OpenId | C: OpenedAt | D: EmployeeId | E: EmployeeName
// F: TillNo | G: MpesaWithdrawal | H: OpeningCashTotal | I: CashBreakdownJSON
//
// CashClose tab layout:
// A: Date | B: OpenId | C: ClosedAt | D: EmployeeId | E: EmployeeName
// F: ClosingCashTotal | G: CashBreakdownJSON
//
// Both tabs are append-only audit trails.

type CashRepository interface {
	AppendOpen(ctx context.Context, o *model.CashOpen) error
	AppendClose(ctx context.Context, c *model.CashClose) error
	// FindOpenByDate returns nil, nil when no open record exists for date.
	FindOpenByDate(ctx context.Context, date string) (*model.CashOpen, error)
	HasCloseForDate(ctx context.Context, date string) (bool, error)
}

type cashRepo struct {
	st       store.RowStore
	openTab  string
	closeTab string
}

func NewCashRepository(st store.RowStore, openTab, closeTab string) CashRepository {
	return &cashRepo{st: st, openTab: openTab, closeTab: closeTab}
}

func (r *cashRepo) AppendOpen(ctx context.Context, o *model.CashOpen) error {
	breakdown, err := json.Marshal(o.CashBreakdown)
	if err != nil {
		return err
	}
	return r.st.AppendRow(ctx, r.openTab, []interface{}{
		o.Date,
		o.OpenID,
		o.OpenedAt,
		o.EmployeeID,
		o.EmployeeName,
		o.TillNo,
		o.MpesaWithdrawal.InexactFloat64(),
		o.OpeningCashTotal.InexactFloat64(),
		string(breakdown),
	})
}

func (r *cashRepo) AppendClose(ctx context.Context, c *model.CashClose) error {
	breakdown, err := json.Marshal(c.CashBreakdown)
	if err != nil {
		return err
	}
	return r.st.AppendRow(ctx, r.closeTab, []interface{}{
		c.Date,
		c.OpenID,
		c.ClosedAt,
		c.EmployeeID,
		c.EmployeeName,
		c.ClosingCashTotal.InexactFloat64(),
		string(breakdown),
	})
}

func (r *cashRepo) FindOpenByDate(ctx context.Context, date string) (*model.CashOpen, error) {
	rows, err := r.st.ReadRows(ctx, r.openTab)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if store.CellString(cell(row, 0)) != date {
			continue
		}
		o := &model.CashOpen{
			Date:             date,
			OpenID:           store.CellString(cell(row, 1)),
			OpenedAt:         store.CellString(cell(row, 2)),
			EmployeeID:       store.CellString(cell(row, 3)),
			EmployeeName:     store.CellString(cell(row, 4)),
			TillNo:           store.CellString(cell(row, 5)),
			MpesaWithdrawal:  store.CellDecimal(cell(row, 6)),
			OpeningCashTotal: store.CellDecimal(cell(row, 7)),
			CashBreakdown:    decodeBreakdown(cell(row, 8)),
		}
		return o, nil
	}
	return nil, nil
}

func (r *cashRepo) HasCloseForDate(ctx context.Context, date string) (bool, error) {
	rows, err := r.st.ReadRows(ctx, r.closeTab)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if store.CellString(cell(row, 0)) == date {
			return true, nil
		}
	}
	return false, nil
}

func decodeBreakdown(v interface{}) []model.CashDenomination {
	raw := store.CellString(v)
	if raw == "" {
		return []model.CashDenomination{}
	}
	var b []model.CashDenomination
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return []model.CashDenomination{}
	}
	return b
}
