package view

import (
	"github.com/shopspring/decimal"

	"glamup.com/app/internal/modules/cart"
)

type CartItem struct {
	Key       string `json:"key"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
	LineTotal Money  `json:"lineTotal"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice Money      `json:"totalPrice"`
	Open       bool       `json:"open"`
}

// CartOf renders one snapshot of s, so items and totals always agree even
// while other requests modify the cart.
func CartOf(s *cart.Store) Cart {
	snap := s.Snapshot()
	out := Cart{Items: make([]CartItem, 0, len(snap.Items)), Open: snap.Open}
	total := decimal.Zero
	for _, it := range snap.Items {
		out.TotalItems += it.Quantity
		total = total.Add(it.LineTotal())
		out.Items = append(out.Items, CartItem{
			Key:       it.Key().String(),
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     MoneyOf(it.Price, ""),
			LineTotal: MoneyOf(it.LineTotal(), ""),
		})
	}
	out.TotalPrice = MoneyOf(total, "")
	return out
}

type CartCount struct {
	Count int `json:"count"`
}
