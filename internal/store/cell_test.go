package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellStringRendersNumbersWithoutDecimalPoint(t *testing.T) {
	// Phone numbers stored as numeric cells must survive as keys.
	assert.Equal(t, "254712345678", CellString(float64(254712345678)))
	assert.Equal(t, "42", CellString(42))
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "hello", CellString("hello"))
}

func TestCellDecimal(t *testing.T) {
	assert.Equal(t, "12.5", CellDecimal("12.50").String())
	assert.Equal(t, "100", CellDecimal(float64(100)).String())
	assert.True(t, CellDecimal("garbage").IsZero())
	assert.True(t, CellDecimal(nil).IsZero())
}

func TestCellTimeISOString(t *testing.T) {
	ts, ok := CellTime("2024-01-10T09:30:00.000Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), ts.UTC())
}

func TestCellTimeEpochMillis(t *testing.T) {
	ts, ok := CellTime(float64(1704879000000)) // 2024-01-10T09:30:00Z
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), ts.UTC())
}

func TestCellTimeSheetSerial(t *testing.T) {
	// Serial 45301 = 2024-01-10; the fraction is the time of day.
	ts, ok := CellTime(45301.5)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), ts.UTC())
}

func TestCellTimeNumericText(t *testing.T) {
	ts, ok := CellTime("1704879000000")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), ts.UTC())
}

func TestCellTimeMalformed(t *testing.T) {
	for _, v := range []interface{}{"garbage", "", nil, float64(123), true} {
		_, ok := CellTime(v)
		assert.False(t, ok, "value %v should not parse", v)
	}
}
