// Package cart holds the shopping cart state: line items keyed by product and size,
// the panel visibility flag, and the derived totals.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"glamup.com/app/internal/modules/catalog"
)

// Item is one cart line. Name, price and image are copied from the product when
// the line is created and are not refreshed from the catalog afterwards.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (it Item) Key() Key { return Key{ProductID: it.ProductID, Size: it.Size} }

func (it Item) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Snapshot is the serialisable state of a Store.
type Snapshot struct {
	Items []Item `json:"items"`
	Open  bool   `json:"open"`
}

// MaxQuantity caps a single line. Adds beyond it saturate.
const MaxQuantity = 99

// Store is safe for concurrent use. Every operation is total: quantities are
// clamped, unknown keys are ignored.
type Store struct {
	mu    sync.Mutex
	items []Item
	open  bool
}

func NewStore() *Store { return &Store{} }

// AddItem merges into the existing line for (product, size) or appends a new one.
// quantity below 1 counts as 1 and the line never exceeds MaxQuantity.
// Visibility is not touched.
func (s *Store) AddItem(p catalog.Product, quantity int, size string) {
	quantity = clampQuantity(quantity)
	key := Key{ProductID: p.ID, Size: size}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(key); i >= 0 {
		s.items[i].Quantity = addQuantity(s.items[i].Quantity, quantity)
		return
	}
	s.items = append(s.items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Size:      size,
		Quantity:  quantity,
	})
}

func (s *Store) RemoveItem(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(key); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// UpdateQuantity sets the line quantity to quantity clamped to [1, MaxQuantity].
func (s *Store) UpdateQuantity(key Key, quantity int) {
	quantity = clampQuantity(quantity)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(key); i >= 0 {
		s.items[i].Quantity = quantity
	}
}

func (s *Store) ToggleCart() {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
}

// SetOpen forces the panel flag; used when checkout closes the cart.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Clear drops every line. Visibility is left as is.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Subtract takes the given lines out of the cart: each matching line loses
// the listed quantity and is removed when nothing is left. Lines added or
// raised after the list was taken keep the difference.
func (s *Store) Subtract(lines []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range lines {
		i := s.indexOf(it.Key())
		if i < 0 {
			continue
		}
		if s.items[i].Quantity <= it.Quantity {
			s.items = append(s.items[:i], s.items[i+1:]...)
			continue
		}
		s.items[i].Quantity -= it.Quantity
	}
}

// Items returns a copy in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Item(key Key) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(key); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is recomputed from the lines on every call.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items, Open: s.open}
}

// Restore replaces the store state. Snapshots come from outside the process, so
// lines are re-merged by key and quantities clamped before they are accepted.
func (s *Store) Restore(snap Snapshot) {
	items := make([]Item, 0, len(snap.Items))
	seen := make(map[Key]int, len(snap.Items))
	for _, it := range snap.Items {
		if it.ProductID == "" {
			continue
		}
		it.Quantity = clampQuantity(it.Quantity)
		if i, ok := seen[it.Key()]; ok {
			items[i].Quantity = addQuantity(items[i].Quantity, it.Quantity)
			continue
		}
		seen[it.Key()] = len(items)
		items = append(items, it)
	}

	s.mu.Lock()
	s.items = items
	s.open = snap.Open
	s.mu.Unlock()
}

func (s *Store) indexOf(key Key) int {
	for i, it := range s.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}

// addQuantity adds two clamped quantities; both are <= MaxQuantity so the sum
// cannot overflow.
func addQuantity(a, b int) int {
	return clampQuantity(a + b)
}
