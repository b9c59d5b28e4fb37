package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndRead(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.AppendRow(ctx, "Sales", []interface{}{"a", 1}))
	require.NoError(t, m.AppendRow(ctx, "Sales", []interface{}{"b", 2}))

	rows, err := m.ReadRows(ctx, "Sales")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Data rows start at sheet row 2.
	row, err := m.ReadRow(ctx, "Sales", 3)
	require.NoError(t, err)
	assert.Equal(t, "b", row[0])

	_, err = m.ReadRow(ctx, "Sales", 4)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryStoreDeleteShiftsRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, m.AppendRow(ctx, "Delivery", []interface{}{v}))
	}

	// Delete sheet row 3 ("b"): 0-based half-open range [2, 3).
	require.NoError(t, m.DeleteRows(ctx, "Delivery", 2, 3))

	rows, err := m.ReadRows(ctx, "Delivery")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][0])
	// "c" shifted up into the deleted row's slot.
	assert.Equal(t, "c", rows[1][0])
}

func TestFindRowIndexByKey(t *testing.T) {
	rows := [][]interface{}{
		{"0711", "Alice"},
		{float64(722000000), "Bob"}, // numeric cell
	}
	assert.Equal(t, 2, FindRowIndexByKey(rows, 0, "0711"))
	assert.Equal(t, 3, FindRowIndexByKey(rows, 0, "722000000"))
	assert.Equal(t, -1, FindRowIndexByKey(rows, 0, "0799"))
}
