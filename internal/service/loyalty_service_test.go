package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alceillini1999/Zaad.POS/internal/repository"
	"github.com/alceillini1999/Zaad.POS/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccrueCreatesClientOnFirstVisit(t *testing.T) {
	st := store.NewMemoryStore()
	repo := repository.NewClientRepository(st, "Clients")
	svc := NewLoyaltyService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "0711", "Amina", 3))

	c, rowIndex, err := repo.FindByPhone(ctx, "0711")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, rowIndex)
	assert.Equal(t, 3, c.Points)
	assert.Equal(t, "Amina", c.Name)
}

func TestAccrueSumsExistingBalance(t *testing.T) {
	st := store.NewMemoryStore()
	repo := repository.NewClientRepository(st, "Clients")
	svc := NewLoyaltyService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "0711", "Amina", 3))
	require.NoError(t, svc.Accrue(ctx, "0711", "", 4))

	c, _, err := repo.FindByPhone(ctx, "0711")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Points)
	assert.Equal(t, "Amina", c.Name, "existing name is never overwritten")
}

func TestAccrueConcurrentIncrementsLoseNothing(t *testing.T) {
	st := store.NewMemoryStore()
	repo := repository.NewClientRepository(st, "Clients")
	svc := NewLoyaltyService(repo)
	ctx := context.Background()

	// Accrual is read-modify-write; without the per-phone lock two
	// concurrent accruals would both read the same balance and one
	// increment would vanish.
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Accrue(ctx, "0711", "Amina", 1))
		}()
	}
	wg.Wait()

	c, _, err := repo.FindByPhone(ctx, "0711")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, n, c.Points)

	// Exactly one client row — the first accrual appended, the rest updated.
	rows, err := st.ReadRows(ctx, "Clients")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAccrueFillsMissingName(t *testing.T) {
	st := store.NewMemoryStore()
	repo := repository.NewClientRepository(st, "Clients")
	svc := NewLoyaltyService(repo)
	ctx := context.Background()

	// Hand-entered row with no name.
	require.NoError(t, st.AppendRow(ctx, "Clients", []interface{}{"0722", "", "", 1, ""}))

	require.NoError(t, svc.Accrue(ctx, "0722", "Brian", 2))

	c, _, err := repo.FindByPhone(ctx, "0722")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Points)
	assert.Equal(t, "Brian", c.Name)
}

func TestAccrueNoOps(t *testing.T) {
	st := store.NewMemoryStore()
	repo := repository.NewClientRepository(st, "Clients")
	svc := NewLoyaltyService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "", "x", 5))
	require.NoError(t, svc.Accrue(ctx, "0711", "x", 0))
	require.NoError(t, svc.Accrue(ctx, "0711", "x", -2))

	rows, err := st.ReadRows(ctx, "Clients")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAccrueFallsBackToPhoneAsName(t *testing.T) {
	st := store.NewMemoryStore()
	repo := repository.NewClientRepository(st, "Clients")
	svc := NewLoyaltyService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "0733", "", 1))
	c, _, err := repo.FindByPhone(ctx, "0733")
	require.NoError(t, err)
	assert.Equal(t, "0733", c.Name)
}
