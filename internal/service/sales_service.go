package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/repository"

	"github.com/rs/zerolog/log"
)

// isoMillis matches the timestamp format the original POS writes — always
// UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

type SalesService interface {
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error)
	ListSales(ctx context.Context, q dto.SalesQuery) (*dto.SalesListResponse, error)
	// AppendSale mints an invoice number for sale.Timestamp's day and appends
	// the row. Used by the POS path and the delivery-to-sale converter.
	AppendSale(ctx context.Context, sale *model.Sale) (string, error)
}

type salesService struct {
	repo    repository.SalesRepository
	loyalty LoyaltyService
	seq     *InvoiceSequencer

	// mu serializes sequence-scan + append so two in-process sales cannot
	// mint the same invoice number. Writers outside this process can still
	// collide; ListSales flags those.
	mu  sync.Mutex
	now func() time.Time
}

func NewSalesService(repo repository.SalesRepository, loyalty LoyaltyService, seq *InvoiceSequencer) SalesService {
	return &salesService{repo: repo, loyalty: loyalty, seq: seq, now: time.Now}
}

// ── RecordSale ────────────────────────────────────────────────────────────────

func (s *salesService) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, invalid("Items are required")
	}

	now := s.now()
	items := make([]model.SaleItem, 0, len(req.Items))
	itemsCount := 0
	for _, it := range req.Items {
		itemsCount += it.Qty
		items = append(items, model.SaleItem{Name: it.Name, Qty: it.Qty, Price: it.Price, Cost: it.Cost})
	}

	method := req.PaymentMethod
	if strings.TrimSpace(method) == "" {
		method = "Cash"
	}

	sale := &model.Sale{
		CreatedAt:     now.UTC().Format(isoMillis),
		Timestamp:     now,
		TimestampOK:   true,
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		PaymentMethod: method,
		ItemsCount:    itemsCount,
		Total:         req.Total,
		Profit:        req.Profit,
		Items:         items,
	}

	invoiceNo, err := s.AppendSale(ctx, sale)
	if err != nil {
		return nil, err
	}

	// Secondary effect: loyalty accrual. A failure here must never fail the
	// sale — the money has already moved.
	if req.AddPoints > 0 && strings.TrimSpace(req.ClientPhone) != "" {
		if err := s.loyalty.Accrue(ctx, req.ClientPhone, req.ClientName, req.AddPoints); err != nil {
			log.Warn().Err(err).
				Str("phone", req.ClientPhone).
				Int("points", req.AddPoints).
				Msg("sale recorded but loyalty accrual failed")
		}
	}

	return &dto.RecordSaleResponse{OK: true, InvoiceNo: invoiceNo, InvoiceNumber: invoiceNo}, nil
}

// ── AppendSale ────────────────────────────────────────────────────────────────

func (s *salesService) AppendSale(ctx context.Context, sale *model.Sale) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Availability over gapless numbering: when the sequence scan fails the
	// sale still goes through with sequence 1.
	seq := 1
	if existing, err := s.repo.List(ctx); err != nil {
		log.Warn().Err(err).Msg("invoice sequence scan failed, falling back to 1")
	} else {
		seq = s.seq.NextSeq(existing, sale.Timestamp)
	}

	sale.InvoiceNo = s.seq.Format(sale.Timestamp, seq)
	if err := s.repo.Append(ctx, sale); err != nil {
		return "", unavailable(err, "failed to append sale")
	}
	return sale.InvoiceNo, nil
}

// ── ListSales ─────────────────────────────────────────────────────────────────

func (s *salesService) ListSales(ctx context.Context, q dto.SalesQuery) (*dto.SalesListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 50
	}

	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, unavailable(err, "failed to read sales")
	}

	// Legacy rows may have an empty invoice cell. Derive a display-only
	// number from a per-day counter recomputed in row order; never persisted,
	// so it cannot collide with a real number on re-computation.
	type listEntry struct {
		row dto.SaleRow
		ts  int64
	}
	perDay := make(map[string]int)
	seen := make(map[string]int)
	entries := make([]listEntry, 0, len(sales))
	for _, sale := range sales {
		row := dto.SaleRow{
			ID:            strconv.Itoa(sale.RowIndex),
			CreatedAt:     sale.CreatedAt,
			InvoiceNo:     sale.InvoiceNo,
			InvoiceNumber: sale.InvoiceNo,
			ClientName:    sale.ClientName,
			ClientPhone:   sale.ClientPhone,
			PaymentMethod: sale.PaymentMethod,
			ItemsCount:    sale.ItemsCount,
			Total:         sale.Total,
			Profit:        sale.Profit,
			Items:         sale.Items,
		}
		if sale.TimestampOK {
			key := s.seq.DayKey(sale.Timestamp)
			perDay[key]++
			if sale.InvoiceNo == "" {
				inv := s.seq.Format(sale.Timestamp, perDay[key])
				row.InvoiceNo = inv
				row.InvoiceNumber = inv
				row.GeneratedInvoiceNo = true
			}
		}
		if sale.InvoiceNo != "" {
			seen[sale.InvoiceNo]++
			if seen[sale.InvoiceNo] == 2 {
				// Concurrent minting race: detectable, not preventable
				// without changing the backing store.
				log.Warn().Str("invoice_no", sale.InvoiceNo).Msg("duplicate invoice number in ledger")
			}
		}
		ts := int64(0)
		if sale.TimestampOK {
			ts = sale.Timestamp.UnixMilli()
		}
		entries = append(entries, listEntry{row: row, ts: ts})
	}

	if needle := strings.ToLower(strings.TrimSpace(q.Q)); needle != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.row.InvoiceNo), needle) ||
				strings.Contains(strings.ToLower(e.row.ClientName), needle) ||
				strings.Contains(strings.ToLower(e.row.ClientPhone), needle) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	// Newest first; unparseable timestamps sink to the bottom.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ts > entries[j].ts })

	rows := make([]dto.SaleRow, len(entries))
	for i, e := range entries {
		rows[i] = e.row
	}

	total := len(rows)
	pageCount := (total + q.Limit - 1) / q.Limit
	if pageCount < 1 {
		pageCount = 1
	}
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return &dto.SalesListResponse{
		Rows:      rows[start:end],
		Count:     total,
		Total:     total,
		Page:      q.Page,
		Limit:     q.Limit,
		PageCount: pageCount,
	}, nil
}
