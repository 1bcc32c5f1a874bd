package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glamup.com/app/internal/modules/cart"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/modules/orders"
)

func TestCartOf(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(catalog.Product{ID: "1", Name: "Blouse", Price: decimal.RequireFromString("79.99")}, 2, "M")
	s.AddItem(catalog.Product{ID: "2", Name: "Tote", Price: decimal.RequireFromString("149.99")}, 1, "")

	v := CartOf(s)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "1:M", v.Items[0].Key)
	assert.Equal(t, "159.98", v.Items[0].LineTotal.Amount)
	assert.Equal(t, 3, v.TotalItems)
	assert.Equal(t, "$309.97", v.TotalPrice.Display)
	assert.False(t, v.Open)

	empty := CartOf(cart.NewStore())
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
}

func TestProductOf(t *testing.T) {
	op := decimal.RequireFromString("99.99")
	v := ProductOf(catalog.Product{ID: "1", Price: decimal.RequireFromString("79.99"), OriginalPrice: &op, Inventory: 0})
	require.NotNil(t, v.OriginalPrice)
	assert.Equal(t, "99.99", v.OriginalPrice.Amount)
	assert.False(t, v.InStock)
	assert.NotNil(t, v.Sizes)
}

func TestAdminOrderOf(t *testing.T) {
	note := "rush"
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	o := orders.Order{
		ID:            "o1",
		Status:        orders.StatusShipped,
		Currency:      "USD",
		Total:         decimal.RequireFromString("10"),
		CustomerEmail: "a@example.com",
		CreatedAt:     at,
		Items:         []orders.OrderItem{{ProductName: "Tote", Quantity: 2, UnitPrice: decimal.RequireFromString("5"), LineTotal: decimal.RequireFromString("10")}},
		Events:        []orders.OrderEvent{{Action: orders.ActionShip, FromStatus: orders.StatusProcessing, ToStatus: orders.StatusShipped, Note: &note, CreatedAt: at}},
	}

	owner := OrderOf(o)
	assert.Equal(t, "Shipped", owner.StatusLabel)
	assert.Empty(t, owner.CustomerEmail)
	assert.Empty(t, owner.Events)
	assert.Equal(t, "2024-05-01T10:00:00Z", owner.CreatedAt)

	adm := AdminOrderOf(o)
	assert.Equal(t, "a@example.com", adm.CustomerEmail)
	require.Len(t, adm.Events, 1)
	assert.Equal(t, "rush", adm.Events[0].Note)
}

func TestAdminOrdersPageOf(t *testing.T) {
	p := AdminOrdersPageOf(orders.AdminListResult{Total: 61}, orders.AdminListParams{Page: 2, PageSize: 30})
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
}
