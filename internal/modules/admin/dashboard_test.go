package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/internal/shared/dbx/dbxtest"
)

type stubUsers struct {
	n   int64
	err error
}

func (s stubUsers) CountUsers(context.Context) (int64, error) { return s.n, s.err }

func (s stubUsers) RecentUsers(_ context.Context, limit int) ([]auth.User, error) {
	out := []auth.User{{ID: "u2"}, {ID: "u1"}}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, s.err
}

func seededCatalog(t *testing.T) *catalog.Service {
	t.Helper()
	repo, err := catalog.NewSeededMemoryRepo()
	require.NoError(t, err)
	return catalog.NewService(repo)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	products := seededCatalog(t)
	store := orders.NewGormStore(dbxtest.Open(t, orders.Models()...))
	osvc := orders.NewService(store)

	for _, qty := range []int{1, 2} {
		_, err := osvc.Place(ctx, orders.NewOrder{
			UserID: "u1",
			Lines:  []orders.Line{{ProductID: "1", Name: "Classic Silk Blouse", UnitPrice: decimal.RequireFromString("10"), Quantity: qty}},
			Total:  decimal.NewFromInt(int64(10 * qty)),
		})
		require.NoError(t, err)
	}

	st, err := NewDashboard(products, stubUsers{n: 2}, orders.NewAdminService(store)).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.Products)
	assert.Equal(t, int64(2), st.Users)
	assert.Len(t, st.RecentUsers, 2)
	assert.Equal(t, int64(2), st.Orders)
	assert.Equal(t, int64(2), st.PendingOrders)
	assert.Equal(t, "30.00", st.Revenue.StringFixed(2))
	assert.Len(t, st.RecentOrders, 2)
}

func TestDashboardStats_Error(t *testing.T) {
	products := seededCatalog(t)
	store := orders.NewGormStore(dbxtest.Open(t, orders.Models()...))

	_, err := NewDashboard(products, stubUsers{err: errors.New("boom")}, store).Stats(context.Background())
	assert.Error(t, err)
}
