package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/repository"
	"github.com/alceillini1999/Zaad.POS/internal/store"
	"github.com/alceillini1999/Zaad.POS/internal/worker"

	"github.com/rs/zerolog/log"
)

var ymdRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CleanupDispatcher schedules a retry when the delivery-row delete fails
// after the sale was already recorded. Satisfied by *worker.Dispatcher.
type CleanupDispatcher interface {
	EnqueueDeliveryCleanup(ctx context.Context, p worker.CleanupPayload) error
}

type DeliveryService interface {
	List(ctx context.Context) (*dto.DeliveryListResponse, error)
	Create(ctx context.Context, req dto.CreateDeliveryRequest) error
	// Pay converts an unpaid delivery order into a sale: append to the sales
	// ledger first, delete the delivery row second. If the delete fails the
	// order shows up twice (paid in sales AND still listed unpaid) — a
	// deliberate fail-safe favoring duplicate over lost revenue.
	Pay(ctx context.Context, rowID int, req dto.PayDeliveryRequest) error
}

type deliveryService struct {
	repo       repository.DeliveryRepository
	sales      SalesService
	loyalty    LoyaltyService
	dispatcher CleanupDispatcher
	now        func() time.Time
}

func NewDeliveryService(repo repository.DeliveryRepository, sales SalesService, loyalty LoyaltyService, dispatcher CleanupDispatcher) DeliveryService {
	return &deliveryService{repo: repo, sales: sales, loyalty: loyalty, dispatcher: dispatcher, now: time.Now}
}

func (s *deliveryService) List(ctx context.Context) (*dto.DeliveryListResponse, error) {
	if err := s.repo.EnsureTab(ctx); err != nil {
		return nil, unavailable(err, "failed to prepare delivery tab")
	}
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, unavailable(err, "failed to read delivery orders")
	}
	rows := make([]dto.DeliveryRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, deliveryToRow(&o))
	}
	return &dto.DeliveryListResponse{Rows: rows, Total: len(rows)}, nil
}

func (s *deliveryService) Create(ctx context.Context, req dto.CreateDeliveryRequest) error {
	if len(req.Items) == 0 {
		return invalid("Items are required")
	}
	if err := s.repo.EnsureTab(ctx); err != nil {
		return unavailable(err, "failed to prepare delivery tab")
	}

	now := s.now()
	items := make([]model.SaleItem, 0, len(req.Items))
	itemsCount := 0
	for _, it := range req.Items {
		itemsCount += it.Qty
		items = append(items, model.SaleItem{Name: it.Name, Qty: it.Qty, Price: it.Price, Cost: it.Cost})
	}

	orderNo := strings.TrimSpace(req.OrderNo)
	if orderNo == "" {
		orderNo = strconv.FormatInt(now.UnixMilli(), 10)
	}

	order := &model.DeliveryOrder{
		CreatedAt:   now.UTC().Format(isoMillis),
		OrderNo:     orderNo,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ItemsCount:  itemsCount,
		Total:       req.Total,
		Profit:      req.Profit,
		Items:       items,
		Note:        req.Note,
		Status:      model.StatusUnpaid,
	}
	if err := s.repo.Append(ctx, order); err != nil {
		return unavailable(err, "failed to create delivery order")
	}
	return nil
}

func (s *deliveryService) Pay(ctx context.Context, rowID int, req dto.PayDeliveryRequest) error {
	if rowID < 2 {
		return invalid("Invalid id")
	}
	if err := s.repo.EnsureTab(ctx); err != nil {
		return unavailable(err, "failed to prepare delivery tab")
	}

	order, err := s.repo.Get(ctx, rowID)
	if err != nil {
		if errors.Is(err, store.ErrRowNotFound) {
			return &NotFoundError{Msg: "Order not found"}
		}
		return unavailable(err, "failed to read delivery order")
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = MethodCash
	}

	// The sale is recorded on the PAYMENT day, not the order day, so daily
	// reports and cash balances are untouched until the customer pays.
	// A plain calendar date is stored at 12:00Z to avoid timezone day-shifts
	// when the UI buckets it back into local time.
	var created string
	var ts time.Time
	if d := strings.TrimSpace(req.PaymentDate); ymdRe.MatchString(d) {
		// The regex only checks shape; time.Parse rejects impossible dates
		// like 2024-13-45.
		if parsed, err := time.Parse(isoMillis, d+"T12:00:00.000Z"); err == nil {
			created = d + "T12:00:00.000Z"
			ts = parsed
		}
	}
	if created == "" {
		now := s.now()
		created = now.UTC().Format(isoMillis)
		ts = now
	}

	sale := &model.Sale{
		CreatedAt:     created,
		Timestamp:     ts,
		TimestampOK:   true,
		ClientName:    order.ClientName,
		ClientPhone:   order.ClientPhone,
		PaymentMethod: method,
		ItemsCount:    order.ItemsCount,
		Total:         order.Total,
		Profit:        order.Profit,
		Items:         order.Items,
	}
	if _, err := s.sales.AppendSale(ctx, sale); err != nil {
		return err
	}

	// 1 point per 100 of the total, accrued now that the customer actually
	// paid. Best effort — the payment already stands.
	phone := strings.TrimSpace(order.ClientPhone)
	if pts := int(order.Total.IntPart() / 100); phone != "" && pts > 0 {
		nameHint := order.ClientName
		if nameHint == "" {
			nameHint = phone
		}
		if err := s.loyalty.Accrue(ctx, phone, nameHint, pts); err != nil {
			log.Warn().Err(err).Str("phone", phone).Int("points", pts).Msg("delivery paid but loyalty accrual failed")
		}
	}

	// Delete only after the sale append succeeded. A failed delete leaves a
	// duplicate, never a lost payment; the cleanup worker retries it.
	if err := s.repo.DeleteRow(ctx, rowID); err != nil {
		log.Warn().Err(err).
			Str("order_no", order.OrderNo).
			Int("row", rowID).
			Msg("sale recorded but delivery row not deleted")
		if s.dispatcher != nil {
			p := worker.CleanupPayload{OrderNo: order.OrderNo, CreatedAt: order.CreatedAt}
			if qErr := s.dispatcher.EnqueueDeliveryCleanup(ctx, p); qErr != nil {
				log.Error().Err(qErr).Str("order_no", order.OrderNo).Msg("failed to enqueue delivery cleanup")
			}
		}
	}
	return nil
}

func deliveryToRow(o *model.DeliveryOrder) dto.DeliveryRow {
	return dto.DeliveryRow{
		ID:          strconv.Itoa(o.RowIndex),
		CreatedAt:   o.CreatedAt,
		OrderNo:     o.OrderNo,
		ClientName:  o.ClientName,
		ClientPhone: o.ClientPhone,
		ItemsCount:  o.ItemsCount,
		Total:       o.Total,
		Profit:      o.Profit,
		Items:       o.Items,
		Note:        o.Note,
		Status:      o.Status,
	}
}
