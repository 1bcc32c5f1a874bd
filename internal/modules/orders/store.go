package orders

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store persists orders. GormStore and MongoStore implement it.
type Store interface {
	Create(ctx context.Context, o *Order) error
	// ListByUser returns the user's orders newest first, items loaded.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	// Get returns the order with items and events, or ErrNotFound.
	Get(ctx context.Context, id string) (Order, error)
	AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error)
	// UpdateStatus moves the order to decide(current) and records ev. The write is
	// guarded on the status decide saw, so a concurrent change yields ErrStatusChanged.
	UpdateStatus(ctx context.Context, id string, decide func(Order) (string, error), ev OrderEvent) (Order, error)
	Summary(ctx context.Context) (Summary, error)
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MongoStore)(nil)
)

type AdminListParams struct {
	Q        string
	Status   string
	Page     int
	PageSize int
}

type AdminListResult struct {
	Items []Order
	Total int64
}

func (p AdminListParams) normalized() AdminListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 30
	}
	return p
}

type Summary struct {
	Orders  int64
	Pending int64
	// Revenue excludes cancelled orders.
	Revenue decimal.Decimal
	Recent  []Order
}

const recentLimit = 5
