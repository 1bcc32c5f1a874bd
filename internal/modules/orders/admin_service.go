package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"glamup.com/app/internal/shared/apperr"
)

const (
	ActionProcess = "process"
	ActionShip    = "ship"
	ActionDeliver = "deliver"
	ActionCancel  = "cancel"
)

type AdminService struct {
	store Store
	now   func() time.Time
}

func NewAdminService(store Store) *AdminService {
	return &AdminService{store: store, now: time.Now}
}

type TransitionInput struct {
	OrderID     string
	ActorUserID string // admin user id
	Action      string // process|ship|deliver|cancel
	Note        string
}

func (s *AdminService) Transition(ctx context.Context, in TransitionInput) (Order, error) {
	in.Action = strings.ToLower(strings.TrimSpace(in.Action))
	if in.OrderID == "" || in.ActorUserID == "" || in.Action == "" {
		return Order{}, adminErr(ErrNotActionable)
	}

	ev := OrderEvent{
		ID:          uuid.NewString(),
		ActorUserID: in.ActorUserID,
		Action:      in.Action,
		CreatedAt:   s.now().UTC(),
	}
	if n := strings.TrimSpace(in.Note); n != "" {
		ev.Note = &n
	}

	o, err := s.store.UpdateStatus(ctx, in.OrderID, func(o Order) (string, error) {
		return nextStatus(o.Status, in.Action)
	}, ev)
	if err != nil {
		return Order{}, adminErr(err)
	}
	return o, nil
}

func (s *AdminService) List(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	if in.Status != "" && !ValidStatus(in.Status) {
		return AdminListResult{}, apperr.InvalidErr("Unknown order status.", map[string]string{"status": "Unknown order status."})
	}
	res, err := s.store.AdminList(ctx, in)
	if err != nil {
		return AdminListResult{}, apperr.Wrap(err)
	}
	return res, nil
}

func (s *AdminService) Detail(ctx context.Context, id string) (Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return Order{}, adminErr(err)
	}
	return o, nil
}

func (s *AdminService) Summary(ctx context.Context) (Summary, error) {
	sum, err := s.store.Summary(ctx)
	if err != nil {
		return Summary{}, apperr.Wrap(err)
	}
	return sum, nil
}

func nextStatus(from, action string) (string, error) {
	switch action {
	case ActionProcess:
		if from == StatusPending {
			return StatusProcessing, nil
		}
	case ActionShip:
		if from == StatusProcessing {
			return StatusShipped, nil
		}
	case ActionDeliver:
		if from == StatusProcessing || from == StatusShipped {
			return StatusDelivered, nil
		}
	case ActionCancel:
		if from == StatusPending || from == StatusProcessing {
			return StatusCancelled, nil
		}
	default:
		return "", ErrNotActionable
	}
	return "", ErrInvalidTransition
}

func adminErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFoundErr("Order not found.")
	case errors.Is(err, ErrNotActionable):
		return apperr.InvalidErr("Unknown order action.", map[string]string{"action": "Must be one of: process, ship, deliver, cancel."})
	case errors.Is(err, ErrInvalidTransition):
		ae := apperr.ConflictErr("This order cannot make that status change.")
		ae.Err = err
		return ae
	case errors.Is(err, ErrStatusChanged):
		ae := apperr.ConflictErr("The order was updated by someone else. Reload and try again.")
		ae.Err = err
		return ae
	}
	return apperr.Wrap(err)
}
