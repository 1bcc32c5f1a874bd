package catalog

import (
	"context"
	"sync"
)

// MemoryRepo serves the catalog from process memory in insertion order.
type MemoryRepo struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
}

func NewMemoryRepo(categories []Category, products []Product) *MemoryRepo {
	return &MemoryRepo{
		products:   append([]Product(nil), products...),
		categories: append([]Category(nil), categories...),
	}
}

// NewSeededMemoryRepo loads the embedded catalog.
func NewSeededMemoryRepo() (*MemoryRepo, error) {
	cats, products, err := Seed()
	if err != nil {
		return nil, err
	}
	return NewMemoryRepo(cats, products), nil
}

func (r *MemoryRepo) List(_ context.Context, f Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if !f.match(p) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *MemoryRepo) Categories(context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Category(nil), r.categories...), nil
}

func (r *MemoryRepo) Create(_ context.Context, p Product) error {
	if err := CheckID(p.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, p)
	return nil
}

func (r *MemoryRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}
