package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/repository"
	"github.com/alceillini1999/Zaad.POS/internal/store"
	"github.com/alceillini1999/Zaad.POS/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	enqueued []worker.CleanupPayload
}

func (d *recordingDispatcher) EnqueueDeliveryCleanup(_ context.Context, p worker.CleanupPayload) error {
	d.enqueued = append(d.enqueued, p)
	return nil
}

// failingDeleteStore wraps a RowStore so that DeleteRows always fails —
// the partial-failure case where the sale row already exists.
type failingDeleteStore struct {
	store.RowStore
}

func (f *failingDeleteStore) DeleteRows(context.Context, string, int, int) error {
	return errors.New("delete rejected")
}

func newDeliveryFixture(t *testing.T, st store.RowStore, d CleanupDispatcher) (DeliveryService, SalesService) {
	t.Helper()
	deliveryRepo := repository.NewDeliveryRepository(st, "Delivery")
	salesRepo := repository.NewSalesRepository(st, "Sales")
	clientRepo := repository.NewClientRepository(st, "Clients")
	loyalty := NewLoyaltyService(clientRepo)
	sales := NewSalesService(salesRepo, loyalty, NewInvoiceSequencer(time.UTC))
	svc := NewDeliveryService(deliveryRepo, sales, loyalty, d)
	svc.(*deliveryService).now = func() time.Time {
		return time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	}
	return svc, sales
}

func deliveryReq() dto.CreateDeliveryRequest {
	return dto.CreateDeliveryRequest{
		OrderNo:     "1001",
		ClientName:  "Amina",
		ClientPhone: "0711000111",
		Items: []dto.SaleItemRequest{
			{Name: "Rice", Qty: 1, Price: decimal.NewFromInt(250), Cost: decimal.NewFromInt(150)},
		},
		Total:  decimal.NewFromInt(250),
		Profit: decimal.NewFromInt(100),
		Note:   "leave at gate",
	}
}

func TestCreateAndListDelivery(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newDeliveryFixture(t, st, nil)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, deliveryReq()))

	resp, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, "2", row.ID)
	assert.Equal(t, "1001", row.OrderNo)
	assert.Equal(t, "UNPAID", row.Status)
	assert.Equal(t, "2024-01-10T09:30:00.000Z", row.CreatedAt)
}

func TestPayDeliveryConvertsOrderToSale(t *testing.T) {
	st := store.NewMemoryStore()
	svc, sales := newDeliveryFixture(t, st, nil)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, deliveryReq()))
	require.NoError(t, svc.Pay(ctx, 2, dto.PayDeliveryRequest{PaymentMethod: "Till", PaymentDate: "2024-02-05"}))

	// Delivery row is gone.
	orders, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders.Rows)

	// The sale is dated on the payment day at noon UTC and carries a fresh
	// invoice for that day.
	list, err := sales.ListSales(ctx, dto.SalesQuery{})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	sale := list.Rows[0]
	assert.Equal(t, "2024-02-05T12:00:00.000Z", sale.CreatedAt)
	assert.Equal(t, "5 2 24 1", sale.InvoiceNo)
	assert.Equal(t, "Till", sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(250)))
}

func TestPayDeliveryRejectsImpossiblePaymentDate(t *testing.T) {
	st := store.NewMemoryStore()
	svc, sales := newDeliveryFixture(t, st, nil)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, deliveryReq()))
	// Shape-valid but impossible date: the sale falls back to the clock
	// instead of persisting a zero timestamp.
	require.NoError(t, svc.Pay(ctx, 2, dto.PayDeliveryRequest{PaymentDate: "2024-13-45"}))

	list, err := sales.ListSales(ctx, dto.SalesQuery{})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "2024-01-10T09:30:00.000Z", list.Rows[0].CreatedAt)
	assert.Equal(t, "10 1 24 1", list.Rows[0].InvoiceNo)
}

func TestPayDeliveryAccruesFloorPoints(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newDeliveryFixture(t, st, nil)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, deliveryReq()))
	require.NoError(t, svc.Pay(ctx, 2, dto.PayDeliveryRequest{}))

	// 1 point per full 100: floor(250/100) = 2.
	clients := repository.NewClientRepository(st, "Clients")
	c, _, err := clients.FindByPhone(ctx, "0711000111")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Points)
}

func TestPayDeliveryNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newDeliveryFixture(t, st, nil)

	err := svc.Pay(context.Background(), 9, dto.PayDeliveryRequest{})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	err = svc.Pay(context.Background(), 0, dto.PayDeliveryRequest{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPayDeliveryKeepsSaleWhenDeleteFails(t *testing.T) {
	mem := store.NewMemoryStore()
	dispatcher := &recordingDispatcher{}
	svc, sales := newDeliveryFixture(t, &failingDeleteStore{RowStore: mem}, dispatcher)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, deliveryReq()))

	// Pay succeeds even though the delete failed: duplicate over lost revenue.
	require.NoError(t, svc.Pay(ctx, 2, dto.PayDeliveryRequest{PaymentDate: "2024-02-05"}))

	list, err := sales.ListSales(ctx, dto.SalesQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Rows, 1)

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders.Rows, 1, "order stays listed until the cleanup worker removes it")

	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, "1001", dispatcher.enqueued[0].OrderNo)
	assert.Equal(t, "2024-01-10T09:30:00.000Z", dispatcher.enqueued[0].CreatedAt)
}

func TestCleanupWorkerRelocatesShiftedRow(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	repo := repository.NewDeliveryRepository(st, "Delivery")

	require.NoError(t, st.AppendRow(ctx, "Delivery", []interface{}{"2024-01-09T10:00:00.000Z", "1000", "", "", 1, 100, 0, "", "", "UNPAID"}))
	require.NoError(t, st.AppendRow(ctx, "Delivery", []interface{}{"2024-01-10T09:30:00.000Z", "1001", "", "", 1, 250, 0, "", "", "UNPAID"}))

	// The first row gets deleted before the worker runs, shifting 1001 up.
	require.NoError(t, st.DeleteRows(ctx, "Delivery", 1, 2))

	w := worker.NewCleanupWorker(repo)
	payload := []byte(`{"order_no":"1001","created_at":"2024-01-10T09:30:00.000Z"}`)
	require.NoError(t, w.Handle(ctx, payload))

	rows, err := st.ReadRows(ctx, "Delivery")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Already-gone rows are a no-op, not an error.
	require.NoError(t, w.Handle(ctx, payload))
}
