package view

import "glamup.com/app/internal/modules/orders"

type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
	LineTotal Money  `json:"lineTotal"`
}

type OrderEvent struct {
	Action      string `json:"action"`
	From        string `json:"from"`
	To          string `json:"to"`
	ActorUserID string `json:"actorUserId"`
	Note        string `json:"note,omitempty"`
	At          string `json:"at"`
}

type Order struct {
	ID              string       `json:"id"`
	Status          string       `json:"status"`
	StatusLabel     string       `json:"statusLabel"`
	Total           Money        `json:"total"`
	ItemCount       int          `json:"itemCount"`
	ShippingAddress string       `json:"shippingAddress"`
	PaymentMethod   string       `json:"paymentMethod"`
	CreatedAt       string       `json:"createdAt"`
	Items           []OrderItem  `json:"items"`
	CustomerName    string       `json:"customerName,omitempty"`
	CustomerEmail   string       `json:"customerEmail,omitempty"`
	Events          []OrderEvent `json:"events,omitempty"`
}

// OrderOf renders an order for its owner.
func OrderOf(o orders.Order) Order {
	out := Order{
		ID:              o.ID,
		Status:          o.Status,
		StatusLabel:     orders.StatusLabel(o.Status),
		Total:           MoneyOf(o.Total, o.Currency),
		ItemCount:       o.ItemCount(),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt.UTC().Format(timeLayout),
		Items:           make([]OrderItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Image:     it.Image,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: MoneyOf(it.UnitPrice, o.Currency),
			LineTotal: MoneyOf(it.LineTotal, o.Currency),
		})
	}
	return out
}

func OrdersOf(list []orders.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, OrderOf(o))
	}
	return out
}

// AdminOrderOf adds the customer and the audit trail.
func AdminOrderOf(o orders.Order) Order {
	out := OrderOf(o)
	out.CustomerName = o.CustomerName
	out.CustomerEmail = o.CustomerEmail
	for _, e := range o.Events {
		ev := OrderEvent{
			Action:      e.Action,
			From:        e.FromStatus,
			To:          e.ToStatus,
			ActorUserID: e.ActorUserID,
			At:          e.CreatedAt.UTC().Format(timeLayout),
		}
		if e.Note != nil {
			ev.Note = *e.Note
		}
		out.Events = append(out.Events, ev)
	}
	return out
}

type AdminOrdersPage struct {
	Items      []Order `json:"items"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Status     string  `json:"status,omitempty"`
	Q          string  `json:"q,omitempty"`
}

func AdminOrdersPageOf(res orders.AdminListResult, p orders.AdminListParams) AdminOrdersPage {
	out := AdminOrdersPage{
		Items:  make([]Order, 0, len(res.Items)),
		Total:  res.Total,
		Page:   p.Page,
		Status: p.Status,
		Q:      p.Q,
	}
	for _, o := range res.Items {
		out.Items = append(out.Items, AdminOrderOf(o))
	}
	if p.PageSize > 0 {
		out.TotalPages = int((res.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return out
}
