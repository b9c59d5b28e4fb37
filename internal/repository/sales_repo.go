// Package repository maps domain models onto positional sheet rows. Column
// order is part of the wire contract — rows are positional, not named — so
// each repo owns the layout of exactly one tab.
package repository

import (
	"context"
	"encoding/json"

	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/store"
)

// Sales tab layout:
// A: CreatedAt | B: InvoiceNo | C: ClientName | D: ClientPhone
// E: PaymentMethod | F: ItemsCount | G: Total | H: Profit | I: ItemsJSON

type SalesRepository interface {
	List(ctx context.Context) ([]model.Sale, error)
	Append(ctx context.Context, s *model.Sale) error
}

type salesRepo struct {
	st  store.RowStore
	tab string
}

func NewSalesRepository(st store.RowStore, tab string) SalesRepository {
	return &salesRepo{st: st, tab: tab}
}

func (r *salesRepo) List(ctx context.Context) ([]model.Sale, error) {
	rows, err := r.st.ReadRows(ctx, r.tab)
	if err != nil {
		return nil, err
	}
	sales := make([]model.Sale, 0, len(rows))
	for i, row := range rows {
		sales = append(sales, decodeSale(row, i+2))
	}
	return sales, nil
}

func (r *salesRepo) Append(ctx context.Context, s *model.Sale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return err
	}
	return r.st.AppendRow(ctx, r.tab, []interface{}{
		s.CreatedAt,
		s.InvoiceNo,
		s.ClientName,
		s.ClientPhone,
		s.PaymentMethod,
		s.ItemsCount,
		s.Total.InexactFloat64(),
		s.Profit.InexactFloat64(),
		string(items),
	})
}

func decodeSale(row []interface{}, rowIndex int) model.Sale {
	s := model.Sale{
		RowIndex:      rowIndex,
		CreatedAt:     store.CellString(cell(row, 0)),
		InvoiceNo:     store.CellString(cell(row, 1)),
		ClientName:    store.CellString(cell(row, 2)),
		ClientPhone:   store.CellString(cell(row, 3)),
		PaymentMethod: store.CellString(cell(row, 4)),
		ItemsCount:    store.CellInt(cell(row, 5)),
		Total:         store.CellDecimal(cell(row, 6)),
		Profit:        store.CellDecimal(cell(row, 7)),
		Items:         decodeItems(cell(row, 8)),
	}
	if s.PaymentMethod == "" {
		s.PaymentMethod = "Cash"
	}
	s.Timestamp, s.TimestampOK = store.CellTime(cell(row, 0))
	return s
}

// cell returns row[i] or nil — short rows are common when trailing cells
// were never written.
func cell(row []interface{}, i int) interface{} {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func decodeItems(v interface{}) []model.SaleItem {
	raw := store.CellString(v)
	if raw == "" {
		return []model.SaleItem{}
	}
	var items []model.SaleItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []model.SaleItem{}
	}
	return items
}
