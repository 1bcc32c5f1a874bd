package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/shared/money"
)

// Service is the customer side of order persistence.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

type Line struct {
	ProductID string
	Name      string
	Image     string
	Size      string
	UnitPrice decimal.Decimal
	Quantity  int
}

type NewOrder struct {
	UserID          string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	PaymentMethod   string
	Currency        string
	Lines           []Line
	// Total is the cart total at submission time.
	Total decimal.Decimal
}

// Place stores a pending order.
func (s *Service) Place(ctx context.Context, in NewOrder) (Order, error) {
	if in.UserID == "" || len(in.Lines) == 0 {
		return Order{}, apperr.InvalidErr("An order needs a customer and at least one item.", nil)
	}
	if in.Currency == "" {
		in.Currency = money.DefaultCurrency
	}

	now := s.now().UTC()
	o := Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		Status:          StatusPending,
		Currency:        in.Currency,
		Total:           in.Total.Round(2),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i, l := range in.Lines {
		o.Items = append(o.Items, OrderItem{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			Position:    i,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Image:       l.Image,
			Size:        l.Size,
			UnitPrice:   l.UnitPrice.Round(2),
			Quantity:    l.Quantity,
			LineTotal:   money.LineTotal(l.UnitPrice, l.Quantity),
		})
	}

	if err := s.store.Create(ctx, &o); err != nil {
		return Order{}, apperr.UnavailableErr("We could not place your order. Please try again.", err)
	}
	return o, nil
}

// ListForUser returns the user's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	out, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.UnavailableErr("Could not load your orders. Please try again.", err)
	}
	return out, nil
}

// GetForUser hides other users' orders behind not-found.
func (s *Service) GetForUser(ctx context.Context, userID, id string) (Order, error) {
	o, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) || (err == nil && o.UserID != userID) {
		return Order{}, apperr.NotFoundErr("Order not found.")
	}
	if err != nil {
		return Order{}, apperr.Wrap(err)
	}
	o.Events = nil
	return o, nil
}
