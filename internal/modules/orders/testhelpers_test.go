package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"glamup.com/app/internal/shared/dbx/dbxtest"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	return NewGormStore(dbxtest.Open(t, Models()...))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// placeAt stores an order created at the given time.
func placeAt(t *testing.T, store Store, userID string, at time.Time, lines ...Line) Order {
	t.Helper()
	svc := NewService(store)
	svc.now = func() time.Time { return at }
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	o, err := svc.Place(context.Background(), NewOrder{
		UserID:          userID,
		CustomerName:    "Customer " + userID,
		CustomerEmail:   userID + "@example.com",
		ShippingAddress: "1 Main St, Chicago",
		PaymentMethod:   "card",
		Lines:           lines,
		Total:           total,
	})
	require.NoError(t, err)
	return o
}

func blouse(qty int) Line {
	return Line{ProductID: "1", Name: "Classic Silk Blouse", Size: "M", UnitPrice: dec("79.99"), Quantity: qty}
}

func tote(qty int) Line {
	return Line{ProductID: "2", Name: "Designer Tote Bag", UnitPrice: dec("149.99"), Quantity: qty}
}
