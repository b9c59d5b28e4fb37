package repository

import (
	"context"

	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/store"
)

// Clients tab layout:
// A: Phone | B: Name | C: Address | D: Points | E: Notes

type ClientRepository interface {
	// FindByPhone returns the client and its 1-based sheet row, or
	// nil, -1 when the phone is unknown.
	FindByPhone(ctx context.Context, phone string) (*model.Client, int, error)
	Update(ctx context.Context, rowIndex int, c *model.Client) error
	Append(ctx context.Context, c *model.Client) error
}

type clientRepo struct {
	st  store.RowStore
	tab string
}

func NewClientRepository(st store.RowStore, tab string) ClientRepository {
	return &clientRepo{st: st, tab: tab}
}

func (r *clientRepo) FindByPhone(ctx context.Context, phone string) (*model.Client, int, error) {
	rows, err := r.st.ReadRows(ctx, r.tab)
	if err != nil {
		return nil, -1, err
	}
	idx := store.FindRowIndexByKey(rows, 0, phone)
	if idx < 0 {
		return nil, -1, nil
	}
	row := rows[idx-2]
	c := &model.Client{
		Phone:   store.CellString(cell(row, 0)),
		Name:    store.CellString(cell(row, 1)),
		Address: store.CellString(cell(row, 2)),
		Points:  store.CellInt(cell(row, 3)),
		Notes:   store.CellString(cell(row, 4)),
	}
	return c, idx, nil
}

func (r *clientRepo) Update(ctx context.Context, rowIndex int, c *model.Client) error {
	return r.st.UpdateRow(ctx, r.tab, rowIndex, []interface{}{
		c.Phone, c.Name, c.Address, c.Points, c.Notes,
	})
}

func (r *clientRepo) Append(ctx context.Context, c *model.Client) error {
	return r.st.AppendRow(ctx, r.tab, []interface{}{
		c.Phone, c.Name, c.Address, c.Points, c.Notes,
	})
}
