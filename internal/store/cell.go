package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell coercion helpers. The sheet API returns unformatted values as a mix of
// strings, float64 and bool depending on how the cell was last written, so
// every positional codec goes through these instead of type-asserting.

// CellString renders any cell value as a string. Numbers are rendered without
// a trailing ".0" so keys like phone numbers survive numeric cells.
func CellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// CellFloat coerces a cell to float64, returning 0 for anything unparseable.
func CellFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CellInt coerces a cell to int, returning 0 for anything unparseable.
func CellInt(v interface{}) int {
	return int(CellFloat(v))
}

// CellDecimal coerces a cell to a decimal amount, returning zero for
// anything unparseable.
func CellDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// Sheet serial day numbers count days since 1899-12-30; 25569 is the serial
// for 1970-01-01.
const (
	serialEpochOffset = 25569
	serialMin         = 20000
	serialMax         = 90000
	epochMillisMin    = 1e11
)

var cellTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// CellTime parses a timestamp cell. Supports ISO strings, epoch milliseconds
// and sheet serial day numbers. Returns ok=false for malformed values —
// callers skip those rows rather than failing.
func CellTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case float64:
		if x > epochMillisMin {
			return time.UnixMilli(int64(x)).UTC(), true
		}
		if x > serialMin && x < serialMax {
			ms := int64((x - serialEpochOffset) * 86400 * 1000)
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range cellTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		// Numeric content stored as text.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return CellTime(f)
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
