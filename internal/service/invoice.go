package service

import (
	"fmt"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/model"
)

// InvoiceSequencer mints per-day invoice numbers in the shop's time zone.
// Format: "<day> <month> <2-digit-year> <sequence>", no leading zeros —
// e.g. "10 1 24 3" for the third sale on 2024-01-10.
//
// The sequence is derived by counting existing ledger rows that fall on the
// same calendar day. Malformed timestamps are skipped, never counted and
// never fatal. Numbers are not reused: sales rows are never deleted, so the
// count only grows within a day.
type InvoiceSequencer struct {
	loc *time.Location
}

func NewInvoiceSequencer(loc *time.Location) *InvoiceSequencer {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceSequencer{loc: loc}
}

// DayKey buckets a timestamp into its calendar date (YYYY-MM-DD) in the
// configured zone.
func (q *InvoiceSequencer) DayKey(t time.Time) string {
	return t.In(q.loc).Format("2006-01-02")
}

// Format renders the invoice number for a timestamp and sequence.
func (q *InvoiceSequencer) Format(t time.Time, seq int) string {
	lt := t.In(q.loc)
	return fmt.Sprintf("%d %d %s %d", lt.Day(), int(lt.Month()), lt.Format("06"), seq)
}

// NextSeq returns count(existing sales on t's day)+1.
func (q *InvoiceSequencer) NextSeq(sales []model.Sale, t time.Time) int {
	key := q.DayKey(t)
	n := 0
	for _, s := range sales {
		if s.TimestampOK && q.DayKey(s.Timestamp) == key {
			n++
		}
	}
	return n + 1
}

// Location exposes the configured zone for day bucketing elsewhere.
func (q *InvoiceSequencer) Location() *time.Location { return q.loc }
