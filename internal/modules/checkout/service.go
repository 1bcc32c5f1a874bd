// Package checkout turns a cart into a pending order.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/cart"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/shared/money"
	"glamup.com/app/internal/shared/validation"
)

var PaymentMethods = []string{"card", "upi", "netbanking", "cod"}

type OrderPlacer interface {
	Place(ctx context.Context, in orders.NewOrder) (orders.Order, error)
}

type Confirmer interface {
	SendOrderConfirmation(ctx context.Context, o orders.Order) error
}

type Options struct {
	// Delay simulates payment processing before the order is stored.
	Delay       time.Duration
	MailTimeout time.Duration
}

type Service struct {
	orders OrderPlacer
	mail   Confirmer
	log    *slog.Logger
	opts   Options

	wg sync.WaitGroup
}

// NewService wires checkout. mail may be nil when no mailer is configured.
func NewService(op OrderPlacer, mail Confirmer, log *slog.Logger, opts Options) *Service {
	if opts.MailTimeout <= 0 {
		opts.MailTimeout = 30 * time.Second
	}
	return &Service{orders: op, mail: mail, log: log, opts: opts}
}

type Form struct {
	Address       string `json:"address" binding:"required,max=500"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=card upi netbanking cod"`
}

type PlaceOrderInput struct {
	User auth.User
	Cart *cart.Store
	Form
}

// PlaceOrder validates the request, stores a pending order for the cart's
// current contents, removes those lines from the cart and closes it. Nothing is mutated when
// validation or storage fails.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (orders.Order, error) {
	in.Address = strings.TrimSpace(in.Address)
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))

	if in.User.ID == "" {
		return orders.Order{}, apperr.UnauthorizedErr("Please log in to check out.")
	}
	snap := in.Cart.Snapshot()
	if len(snap.Items) == 0 {
		return orders.Order{}, apperr.InvalidErr("Your cart is empty.", validation.FieldErrors{"cart": "Your cart is empty."})
	}
	if fields := validation.Struct(in.Form); fields != nil {
		return orders.Order{}, apperr.InvalidErr("Please correct the highlighted fields.", fields)
	}

	if s.opts.Delay > 0 {
		t := time.NewTimer(s.opts.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return orders.Order{}, fmt.Errorf("checkout: %w", ctx.Err())
		case <-t.C:
		}
	}

	lines := make([]orders.Line, 0, len(snap.Items))
	totals := make([]decimal.Decimal, 0, len(snap.Items))
	for _, it := range snap.Items {
		lines = append(lines, orders.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Size:      it.Size,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		})
		totals = append(totals, it.LineTotal())
	}

	o, err := s.orders.Place(ctx, orders.NewOrder{
		UserID:          in.User.ID,
		CustomerName:    in.User.Name,
		CustomerEmail:   in.User.Email,
		ShippingAddress: in.Address,
		PaymentMethod:   in.PaymentMethod,
		Currency:        money.DefaultCurrency,
		Lines:           lines,
		Total:           money.Sum(totals...),
	})
	if err != nil {
		return orders.Order{}, err
	}

	// Only the ordered lines leave the cart; anything added while the order was
	// being placed stays for the next checkout.
	in.Cart.Subtract(snap.Items)
	in.Cart.SetOpen(false)

	s.log.Info("order_placed",
		"order_id", o.ID,
		"user_id", o.UserID,
		"items", o.ItemCount(),
		"total", o.Total.StringFixed(2),
	)
	s.confirm(ctx, o)
	return o, nil
}

// confirm mails the confirmation in the background; failures are logged.
func (s *Service) confirm(ctx context.Context, o orders.Order) {
	if s.mail == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.MailTimeout)
		defer cancel()
		if err := s.mail.SendOrderConfirmation(mctx, o); err != nil {
			s.log.Warn("order_confirmation_failed", "order_id", o.ID, "err", err)
		}
	}()
}

// Wait blocks until pending confirmation mails are done.
func (s *Service) Wait() { s.wg.Wait() }
