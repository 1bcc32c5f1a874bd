// Package admin aggregates the store statistics shown on the admin dashboard.
package admin

import (
	"context"

	"github.com/shopspring/decimal"

	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/orders"
)

const recentUsers = 5

type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
}

type UserStats interface {
	CountUsers(ctx context.Context) (int64, error)
	RecentUsers(ctx context.Context, limit int) ([]auth.User, error)
}

type OrderStats interface {
	Summary(ctx context.Context) (orders.Summary, error)
}

type Stats struct {
	Products      int64
	Users         int64
	Orders        int64
	PendingOrders int64
	Revenue       decimal.Decimal
	RecentUsers   []auth.User
	RecentOrders  []orders.Order
}

type Dashboard struct {
	products ProductCounter
	users    UserStats
	orders   OrderStats
}

func NewDashboard(p ProductCounter, u UserStats, o OrderStats) *Dashboard {
	return &Dashboard{products: p, users: u, orders: o}
}

// Stats collects the dashboard figures. The collaborators already return
// app errors, so they pass through unchanged.
func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.Products, err = d.products.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.Users, err = d.users.CountUsers(ctx); err != nil {
		return Stats{}, err
	}
	if st.RecentUsers, err = d.users.RecentUsers(ctx, recentUsers); err != nil {
		return Stats{}, err
	}
	sum, err := d.orders.Summary(ctx)
	if err != nil {
		return Stats{}, err
	}
	st.Orders = sum.Orders
	st.PendingOrders = sum.Pending
	st.Revenue = sum.Revenue
	st.RecentOrders = sum.Recent
	return st, nil
}
