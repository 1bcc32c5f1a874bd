package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/shared/slug"
	"glamup.com/app/internal/shared/validation"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return Product{}, apperr.NotFoundErr("Product not found.")
	}
	if err != nil {
		return Product{}, apperr.Wrap(err)
	}
	return p, nil
}

// Related returns up to limit other products from the same category.
func (s *Service) Related(ctx context.Context, id string, limit int) ([]Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 4
	}
	same, err := s.List(ctx, Filter{Category: p.Category})
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, limit)
	for _, other := range same {
		if other.ID == p.ID {
			continue
		}
		out = append(out, other)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return cats, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperr.Wrap(err)
	}
	return n, nil
}

type NewProductInput struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description" binding:"max=4000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" binding:"required"`
	Inventory   int             `json:"inventory" binding:"gte=0"`
	ImageURL    string          `json:"imageUrl" binding:"omitempty,url"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
}

// AddProduct validates an admin submission and stores it under a fresh id.
func (s *Service) AddProduct(ctx context.Context, in NewProductInput) (Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)

	fields := validation.Struct(in)
	if fields == nil {
		fields = validation.FieldErrors{}
	}
	if !in.Price.IsPositive() {
		fields["price"] = "Price must be greater than 0."
	}
	if in.Category != "" {
		ok, err := s.categoryExists(ctx, in.Category)
		if err != nil {
			return Product{}, err
		}
		if !ok {
			fields["category"] = "Unknown category."
		}
	}
	if len(fields) > 0 {
		return Product{}, apperr.InvalidErr("Please correct the highlighted fields.", fields)
	}

	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Image:       in.ImageURL,
		Sizes:       trimAll(in.Sizes),
		Colors:      trimAll(in.Colors),
		Inventory:   in.Inventory,
		New:         true,
		CreatedAt:   s.now().UTC(),
	}
	p.Slug = slug.FromName(p.Name) + "-" + p.ID[:8]
	if p.Image != "" {
		p.Images = []string{p.Image}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, apperr.Wrap(err)
	}
	return p, nil
}

func (s *Service) categoryExists(ctx context.Context, id string) (bool, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.ID, id) {
			return true, nil
		}
	}
	return false, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
