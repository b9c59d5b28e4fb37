package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// openCacheTTL bounds how long a day-open snapshot lives in Redis. Open rows
// are append-only, so a cached hit can only ever be stale in one direction:
// a miss for a row created after caching the "not found" — which is why only
// found rows are cached.
const openCacheTTL = 12 * time.Hour

type CashService interface {
	Open(ctx context.Context, req dto.OpenDayRequest) (*dto.OpenDayResponse, error)
	Close(ctx context.Context, req dto.CloseDayRequest) error
	// Today is a pure lookup of the open record for a date; a store timeout
	// surfaces as unavailable, never as "not found".
	Today(ctx context.Context, date string) (*dto.CashTodayResponse, error)
	// Reconcile computes expected balances per bucket. Read-only.
	Reconcile(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileResponse, error)
}

type cashService struct {
	repo  repository.CashRepository
	sales repository.SalesRepository
	seq   *InvoiceSequencer
	rdb   *redis.Client // optional day-open snapshot cache

	// mu serializes the duplicate-open pre-check with the append. Best
	// effort: a second service instance could still slip a duplicate in.
	mu  sync.Mutex
	now func() time.Time
}

func NewCashService(repo repository.CashRepository, sales repository.SalesRepository, seq *InvoiceSequencer, rdb *redis.Client) CashService {
	return &cashService{repo: repo, sales: sales, seq: seq, rdb: rdb, now: time.Now}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *cashService) Open(ctx context.Context, req dto.OpenDayRequest) (*dto.OpenDayResponse, error) {
	date := normalizeDate(req.Date)
	if date == "" {
		return nil, invalid("date is required (YYYY-MM-DD)")
	}
	if req.OpeningCashTotal.IsNegative() {
		return nil, invalid("openingCashTotal must be a non-negative number")
	}
	tillNo := strings.TrimSpace(req.TillNo)
	if tillNo == "" {
		return nil, invalid("tillNo is required")
	}
	if req.MpesaWithdrawal.IsNegative() {
		return nil, invalid("mpesaWithdrawal must be a non-negative number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.FindOpenByDate(ctx, date)
	if err != nil {
		return nil, unavailable(err, "failed to check existing day open")
	}
	if existing != nil {
		return nil, &ConflictError{Msg: "Day already opened for this date", OpenID: existing.OpenID}
	}

	now := s.now()
	openID := strings.TrimSpace(req.OpenID)
	if openID == "" {
		openID = fmt.Sprintf("%s-%d", date, now.UnixMilli())
	}
	openedAt := strings.TrimSpace(req.OpenedAt)
	if openedAt == "" {
		openedAt = now.UTC().Format(isoMillis)
	}
	employeeID, employeeName := parseEmployee(req.Employee)

	open := &model.CashOpen{
		Date:             date,
		OpenID:           openID,
		OpenedAt:         openedAt,
		EmployeeID:       employeeID,
		EmployeeName:     employeeName,
		TillNo:           tillNo,
		MpesaWithdrawal:  req.MpesaWithdrawal,
		OpeningCashTotal: req.OpeningCashTotal,
		CashBreakdown:    req.CashBreakdown,
	}
	if open.CashBreakdown == nil {
		open.CashBreakdown = []model.CashDenomination{}
	}
	if err := s.repo.AppendOpen(ctx, open); err != nil {
		return nil, unavailable(err, "failed to save day open")
	}
	s.cacheOpen(ctx, open)

	return &dto.OpenDayResponse{OK: true, OpenID: openID}, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
//
// A close is appended unconditionally: older ledgers hold orphaned and
// duplicate closes for audit reasons, so rejecting them would break
// backward-read compatibility. Both cases are logged as data-quality
// warnings instead.

func (s *cashService) Close(ctx context.Context, req dto.CloseDayRequest) error {
	date := normalizeDate(req.Date)
	if date == "" {
		return invalid("date is required (YYYY-MM-DD)")
	}
	if req.ClosingCashTotal.IsNegative() {
		return invalid("closingCashTotal must be a non-negative number")
	}

	if open, err := s.repo.FindOpenByDate(ctx, date); err == nil && open == nil {
		log.Warn().Str("date", date).Msg("closing a day that was never opened")
	}
	if closed, err := s.repo.HasCloseForDate(ctx, date); err == nil && closed {
		log.Warn().Str("date", date).Msg("day already has a close record")
	}

	closedAt := strings.TrimSpace(req.ClosedAt)
	if closedAt == "" {
		closedAt = s.now().UTC().Format(isoMillis)
	}
	employeeID, employeeName := parseEmployee(req.Employee)

	cl := &model.CashClose{
		Date:             date,
		OpenID:           strings.TrimSpace(req.OpenID),
		ClosedAt:         closedAt,
		EmployeeID:       employeeID,
		EmployeeName:     employeeName,
		ClosingCashTotal: req.ClosingCashTotal,
		CashBreakdown:    req.CashBreakdown,
	}
	if cl.CashBreakdown == nil {
		cl.CashBreakdown = []model.CashDenomination{}
	}
	if err := s.repo.AppendClose(ctx, cl); err != nil {
		return unavailable(err, "failed to save day close")
	}
	return nil
}

// ── Today ─────────────────────────────────────────────────────────────────────

func (s *cashService) Today(ctx context.Context, date string) (*dto.CashTodayResponse, error) {
	d := normalizeDate(date)
	if d == "" {
		d = s.seq.DayKey(s.now())
	}

	if open := s.cachedOpen(ctx, d); open != nil {
		return &dto.CashTodayResponse{OK: true, Found: true, Row: openToRow(open)}, nil
	}

	open, err := s.repo.FindOpenByDate(ctx, d)
	if err != nil {
		return nil, unavailable(err, "failed to read day open")
	}
	if open == nil {
		return &dto.CashTodayResponse{OK: true, Found: false}, nil
	}
	s.cacheOpen(ctx, open)
	return &dto.CashTodayResponse{OK: true, Found: true, Row: openToRow(open)}, nil
}

// ── Reconcile ─────────────────────────────────────────────────────────────────

func (s *cashService) Reconcile(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	date := normalizeDate(req.Date)
	if date == "" {
		return nil, invalid("date is required (YYYY-MM-DD)")
	}

	// Opening values come from the request when the client tracked them
	// locally, else from the day's open record.
	opening := dto.BucketAmounts{}
	if req.OpeningCash != nil {
		opening.Cash = *req.OpeningCash
	}
	if req.OpeningTill != nil {
		opening.Till = *req.OpeningTill
	}
	if req.OpeningCash == nil || req.OpeningTill == nil {
		open, err := s.repo.FindOpenByDate(ctx, date)
		if err != nil {
			return nil, unavailable(err, "failed to read day open")
		}
		if open != nil {
			if req.OpeningCash == nil {
				opening.Cash = open.OpeningCashTotal
			}
			if req.OpeningTill == nil {
				opening.Till = open.MpesaWithdrawal
			}
		}
	}

	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, unavailable(err, "failed to read sales")
	}
	salesByBucket := dto.BucketAmounts{}
	for _, sale := range sales {
		if !sale.TimestampOK || s.seq.DayKey(sale.Timestamp) != date {
			continue
		}
		switch NormalizePayMethod(sale.PaymentMethod) {
		case MethodCash:
			salesByBucket.Cash = salesByBucket.Cash.Add(sale.Total)
		case MethodTill:
			salesByBucket.Till = salesByBucket.Till.Add(sale.Total)
		case MethodWithdrawal:
			salesByBucket.Withdrawal = salesByBucket.Withdrawal.Add(sale.Total)
		case MethodSendMoney:
			salesByBucket.SendMoney = salesByBucket.SendMoney.Add(sale.Total)
		}
	}

	withdrawn := dto.BucketAmounts{}
	for _, w := range req.Withdrawals {
		switch w.Source {
		case MethodCash:
			withdrawn.Cash = withdrawn.Cash.Add(w.Amount)
		case MethodTill:
			withdrawn.Till = withdrawn.Till.Add(w.Amount)
		case MethodWithdrawal:
			withdrawn.Withdrawal = withdrawn.Withdrawal.Add(w.Amount)
		case MethodSendMoney:
			withdrawn.SendMoney = withdrawn.SendMoney.Add(w.Amount)
		}
	}

	return &dto.ReconcileResponse{
		OK:        true,
		Date:      date,
		Opening:   opening,
		Sales:     salesByBucket,
		Withdrawn: withdrawn,
		Expected:  ComputeExpected(opening, salesByBucket, withdrawn),
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// ComputeExpected is the reconciliation arithmetic:
// expected[bucket] = opening[bucket] + sales[bucket] − withdrawn[bucket],
// and the grand total is the sum of all four buckets. Pure.
func ComputeExpected(opening, sales, withdrawn dto.BucketAmounts) dto.ExpectedBalances {
	e := dto.ExpectedBalances{
		Cash:       opening.Cash.Add(sales.Cash).Sub(withdrawn.Cash),
		Till:       opening.Till.Add(sales.Till).Sub(withdrawn.Till),
		Withdrawal: opening.Withdrawal.Add(sales.Withdrawal).Sub(withdrawn.Withdrawal),
		SendMoney:  opening.SendMoney.Add(sales.SendMoney).Sub(withdrawn.SendMoney),
	}
	e.Total = e.Cash.Add(e.Till).Add(e.Withdrawal).Add(e.SendMoney)
	return e
}

// normalizeDate accepts YYYY-MM-DD or any parseable timestamp and returns the
// plain date, or "" when unparseable.
func normalizeDate(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if ymdRe.MatchString(s) {
		return s
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return ""
}

// parseEmployee extracts id and name from the free-form employee object —
// the POS frontends disagree on field names, so fall through the aliases.
func parseEmployee(raw json.RawMessage) (id, name string) {
	if len(raw) == 0 {
		return "", ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", ""
	}
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := m[k]; ok {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
		return ""
	}
	return str("id", "employeeId", "employeeid", "username"), str("name", "employeeName", "username")
}

func openToRow(o *model.CashOpen) *dto.CashOpenRow {
	return &dto.CashOpenRow{
		Date:             o.Date,
		OpenID:           o.OpenID,
		OpenedAt:         o.OpenedAt,
		EmployeeID:       o.EmployeeID,
		EmployeeName:     o.EmployeeName,
		TillNo:           o.TillNo,
		MpesaWithdrawal:  o.MpesaWithdrawal,
		OpeningCashTotal: o.OpeningCashTotal,
		CashBreakdown:    o.CashBreakdown,
	}
}

func (s *cashService) openCacheKey(date string) string { return "cash:open:" + date }

func (s *cashService) cacheOpen(ctx context.Context, o *model.CashOpen) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(o)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, s.openCacheKey(o.Date), data, openCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("date", o.Date).Msg("day-open cache write failed")
	}
}

func (s *cashService) cachedOpen(ctx context.Context, date string) *model.CashOpen {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, s.openCacheKey(date)).Bytes()
	if err != nil {
		return nil
	}
	var o model.CashOpen
	if err := json.Unmarshal(data, &o); err != nil {
		return nil
	}
	return &o
}
