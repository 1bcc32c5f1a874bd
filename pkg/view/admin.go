package view

import "glamup.com/app/internal/modules/admin"

type Dashboard struct {
	Products      int64   `json:"products"`
	Users         int64   `json:"users"`
	Orders        int64   `json:"orders"`
	PendingOrders int64   `json:"pendingOrders"`
	Revenue       Money   `json:"revenue"`
	RecentUsers   []User  `json:"recentUsers"`
	RecentOrders  []Order `json:"recentOrders"`
}

func DashboardOf(st admin.Stats) Dashboard {
	out := Dashboard{
		Products:      st.Products,
		Users:         st.Users,
		Orders:        st.Orders,
		PendingOrders: st.PendingOrders,
		Revenue:       MoneyOf(st.Revenue, ""),
		RecentUsers:   make([]User, 0, len(st.RecentUsers)),
		RecentOrders:  make([]Order, 0, len(st.RecentOrders)),
	}
	for _, u := range st.RecentUsers {
		out.RecentUsers = append(out.RecentUsers, UserOf(u))
	}
	for _, o := range st.RecentOrders {
		out.RecentOrders = append(out.RecentOrders, AdminOrderOf(o))
	}
	return out
}
