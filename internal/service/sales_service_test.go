package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/repository"
	"github.com/alceillini1999/Zaad.POS/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSalesFixture(t *testing.T) (*store.MemoryStore, SalesService, repository.SalesRepository) {
	t.Helper()
	st := store.NewMemoryStore()
	salesRepo := repository.NewSalesRepository(st, "Sales")
	clientRepo := repository.NewClientRepository(st, "Clients")
	loyalty := NewLoyaltyService(clientRepo)
	svc := NewSalesService(salesRepo, loyalty, NewInvoiceSequencer(time.UTC))
	svc.(*salesService).now = func() time.Time {
		return time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	}
	return st, svc, salesRepo
}

func saleReq(total float64) dto.RecordSaleRequest {
	return dto.RecordSaleRequest{
		PaymentMethod: "Cash",
		Items: []dto.SaleItemRequest{
			{Name: "Bread", Qty: 2, Price: decimal.NewFromInt(50), Cost: decimal.NewFromInt(20)},
		},
		Total:  decimal.NewFromFloat(total),
		Profit: decimal.NewFromInt(60),
	}
}

func TestRecordSaleMintsSequentialInvoices(t *testing.T) {
	_, svc, repo := newSalesFixture(t)
	ctx := context.Background()

	r1, err := svc.RecordSale(ctx, saleReq(100))
	require.NoError(t, err)
	assert.Equal(t, "10 1 24 1", r1.InvoiceNo)
	assert.Equal(t, r1.InvoiceNo, r1.InvoiceNumber)

	r2, err := svc.RecordSale(ctx, saleReq(200))
	require.NoError(t, err)
	assert.Equal(t, "10 1 24 2", r2.InvoiceNo)

	sales, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "2024-01-10T09:30:00.000Z", sales[0].CreatedAt)
	assert.Equal(t, 2, sales[0].ItemsCount)
	assert.True(t, sales[0].Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, sales[0].Profit.Equal(decimal.NewFromInt(60)))
	require.Len(t, sales[0].Items, 1)
	assert.Equal(t, "Bread", sales[0].Items[0].Name)
}

func TestRecordSaleConcurrentSalesMintDistinctInvoices(t *testing.T) {
	_, svc, repo := newSalesFixture(t)
	ctx := context.Background()

	// Sequence scan + append race without the append mutex: two scans could
	// count the same rows and mint the same number.
	const n = 30
	invoices := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.RecordSale(ctx, saleReq(100))
			if assert.NoError(t, err) {
				invoices <- resp.InvoiceNo
			}
		}()
	}
	wg.Wait()
	close(invoices)

	seen := make(map[string]bool)
	for inv := range invoices {
		assert.False(t, seen[inv], "duplicate invoice %q", inv)
		seen[inv] = true
	}
	assert.Len(t, seen, n)

	sales, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, n)
}

func TestRecordSaleSkipsMalformedRowsInSequence(t *testing.T) {
	st, svc, _ := newSalesFixture(t)
	ctx := context.Background()

	// Hand-edited row with an unparseable timestamp: never counted, never fatal.
	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"not-a-date", "", "", "", "", 1, 10, 5, ""}))

	resp, err := svc.RecordSale(ctx, saleReq(100))
	require.NoError(t, err)
	assert.Equal(t, "10 1 24 1", resp.InvoiceNo)
}

// brokenListRepo fails every read but accepts appends — the degraded-store
// case where the sale must still go through with sequence 1.
type brokenListRepo struct {
	appended []model.Sale
}

func (r *brokenListRepo) List(context.Context) ([]model.Sale, error) {
	return nil, errors.New("quota exceeded")
}

func (r *brokenListRepo) Append(_ context.Context, s *model.Sale) error {
	r.appended = append(r.appended, *s)
	return nil
}

func TestAppendSaleFallsBackToSequenceOne(t *testing.T) {
	repo := &brokenListRepo{}
	svc := NewSalesService(repo, NewLoyaltyService(repository.NewClientRepository(store.NewMemoryStore(), "Clients")), NewInvoiceSequencer(time.UTC))

	sale := &model.Sale{
		Timestamp:   time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
		TimestampOK: true,
	}
	inv, err := svc.AppendSale(context.Background(), sale)
	require.NoError(t, err)
	assert.Equal(t, "10 1 24 1", inv)
	require.Len(t, repo.appended, 1)
}

func TestRecordSaleAccruesLoyaltyPoints(t *testing.T) {
	st, svc, _ := newSalesFixture(t)
	ctx := context.Background()

	req := saleReq(100)
	req.ClientPhone = "0711000111"
	req.ClientName = "Amina"
	req.AddPoints = 5
	_, err := svc.RecordSale(ctx, req)
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, req)
	require.NoError(t, err)

	clients := repository.NewClientRepository(st, "Clients")
	c, _, err := clients.FindByPhone(ctx, "0711000111")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 10, c.Points)
	assert.Equal(t, "Amina", c.Name)
}

func TestListSalesDerivesDisplayInvoiceForLegacyRows(t *testing.T) {
	st, svc, _ := newSalesFixture(t)
	ctx := context.Background()

	// Legacy row: timestamp present, invoice cell empty.
	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"2024-01-10T08:00:00.000Z", "", "Old", "", "Cash", 1, 10, 5, ""}))

	resp, err := svc.ListSales(ctx, dto.SalesQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "10 1 24 1", resp.Rows[0].InvoiceNo)
	assert.True(t, resp.Rows[0].GeneratedInvoiceNo)
}

func TestListSalesSortsNewestFirstAndPaginates(t *testing.T) {
	st, svc, _ := newSalesFixture(t)
	ctx := context.Background()

	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"2024-01-09T08:00:00.000Z", "9 1 24 1", "Early", "", "Cash", 1, 10, 5, ""}))
	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"2024-01-10T08:00:00.000Z", "10 1 24 1", "Late", "", "Cash", 1, 10, 5, ""}))
	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"garbage", "x", "Broken", "", "Cash", 1, 10, 5, ""}))

	resp, err := svc.ListSales(ctx, dto.SalesQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.PageCount)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "Late", resp.Rows[0].ClientName)
	assert.Equal(t, "Early", resp.Rows[1].ClientName)

	// Unparseable timestamps sink to the last page.
	resp, err = svc.ListSales(ctx, dto.SalesQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Broken", resp.Rows[0].ClientName)
}

func TestListSalesFilter(t *testing.T) {
	st, svc, _ := newSalesFixture(t)
	ctx := context.Background()

	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"2024-01-10T08:00:00.000Z", "10 1 24 1", "Amina", "0711", "Cash", 1, 10, 5, ""}))
	require.NoError(t, st.AppendRow(ctx, "Sales", []interface{}{"2024-01-10T09:00:00.000Z", "10 1 24 2", "Brian", "0722", "Till", 1, 10, 5, ""}))

	resp, err := svc.ListSales(ctx, dto.SalesQuery{Q: "amina"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Amina", resp.Rows[0].ClientName)

	resp, err = svc.ListSales(ctx, dto.SalesQuery{Q: "0722"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Brian", resp.Rows[0].ClientName)
}

func TestRecordSaleRejectsEmptyItems(t *testing.T) {
	_, svc, _ := newSalesFixture(t)
	_, err := svc.RecordSale(context.Background(), dto.RecordSaleRequest{Total: decimal.NewFromInt(10)})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
