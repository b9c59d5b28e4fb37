package repository

import (
	"context"
	"encoding/json"

	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/store"
)

// Delivery tab layout:
// A: CreatedAt | B: OrderNo | C: ClientName | D: ClientPhone | E: ItemsCount
// F: Total | G: Profit | H: ItemsJSON | I: Note | J: Status

var deliveryHeader = []interface{}{
	"CreatedAt", "OrderNo", "ClientName", "ClientPhone", "ItemsCount",
	"Total", "Profit", "ItemsJSON", "Note", "Status",
}

type DeliveryRepository interface {
	EnsureTab(ctx context.Context) error
	List(ctx context.Context) ([]model.DeliveryOrder, error)
	Get(ctx context.Context, rowIndex int) (*model.DeliveryOrder, error)
	Append(ctx context.Context, o *model.DeliveryOrder) error
	// DeleteRow removes one order row; later rows shift up by one.
	DeleteRow(ctx context.Context, rowIndex int) error
	// FindRow re-locates an order after row indexes may have shifted,
	// matching on OrderNo and CreatedAt. Returns -1 when gone.
	FindRow(ctx context.Context, orderNo, createdAt string) (int, error)
}

type deliveryRepo struct {
	st  store.RowStore
	tab string
}

func NewDeliveryRepository(st store.RowStore, tab string) DeliveryRepository {
	return &deliveryRepo{st: st, tab: tab}
}

func (r *deliveryRepo) EnsureTab(ctx context.Context) error {
	return r.st.EnsureTab(ctx, r.tab, deliveryHeader)
}

func (r *deliveryRepo) List(ctx context.Context) ([]model.DeliveryOrder, error) {
	rows, err := r.st.ReadRows(ctx, r.tab)
	if err != nil {
		return nil, err
	}
	orders := make([]model.DeliveryOrder, 0, len(rows))
	for i, row := range rows {
		orders = append(orders, decodeDelivery(row, i+2))
	}
	return orders, nil
}

func (r *deliveryRepo) Get(ctx context.Context, rowIndex int) (*model.DeliveryOrder, error) {
	row, err := r.st.ReadRow(ctx, r.tab, rowIndex)
	if err != nil {
		return nil, err
	}
	o := decodeDelivery(row, rowIndex)
	return &o, nil
}

func (r *deliveryRepo) Append(ctx context.Context, o *model.DeliveryOrder) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	return r.st.AppendRow(ctx, r.tab, []interface{}{
		o.CreatedAt,
		o.OrderNo,
		o.ClientName,
		o.ClientPhone,
		o.ItemsCount,
		o.Total.InexactFloat64(),
		o.Profit.InexactFloat64(),
		string(items),
		o.Note,
		o.Status,
	})
}

func (r *deliveryRepo) DeleteRow(ctx context.Context, rowIndex int) error {
	// 0-based half-open range covering exactly the 1-based sheet row.
	return r.st.DeleteRows(ctx, r.tab, rowIndex-1, rowIndex)
}

func (r *deliveryRepo) FindRow(ctx context.Context, orderNo, createdAt string) (int, error) {
	rows, err := r.st.ReadRows(ctx, r.tab)
	if err != nil {
		return -1, err
	}
	for i, row := range rows {
		if store.CellString(cell(row, 1)) == orderNo && store.CellString(cell(row, 0)) == createdAt {
			return i + 2, nil
		}
	}
	return -1, nil
}

func decodeDelivery(row []interface{}, rowIndex int) model.DeliveryOrder {
	o := model.DeliveryOrder{
		RowIndex:    rowIndex,
		CreatedAt:   store.CellString(cell(row, 0)),
		OrderNo:     store.CellString(cell(row, 1)),
		ClientName:  store.CellString(cell(row, 2)),
		ClientPhone: store.CellString(cell(row, 3)),
		ItemsCount:  store.CellInt(cell(row, 4)),
		Total:       store.CellDecimal(cell(row, 5)),
		Profit:      store.CellDecimal(cell(row, 6)),
		Items:       decodeItems(cell(row, 7)),
		Note:        store.CellString(cell(row, 8)),
		Status:      store.CellString(cell(row, 9)),
	}
	if o.Status == "" {
		o.Status = model.StatusUnpaid
	}
	o.Timestamp, o.TimestampOK = store.CellTime(cell(row, 0))
	return o
}
