package view

import "glamup.com/app/internal/modules/catalog"

type Product struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Description    string            `json:"description"`
	Price          Money             `json:"price"`
	OriginalPrice  *Money            `json:"originalPrice,omitempty"`
	Discount       int               `json:"discount,omitempty"`
	Image          string            `json:"image"`
	Images         []string          `json:"images"`
	Sizes          []string          `json:"sizes"`
	Colors         []string          `json:"colors"`
	Featured       bool              `json:"featured"`
	New            bool              `json:"new"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	Specifications map[string]string `json:"specifications,omitempty"`
	InStock        bool              `json:"inStock"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func ProductOf(p catalog.Product) Product {
	out := Product{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Category:       p.Category,
		Description:    p.Description,
		Price:          MoneyOf(p.Price, ""),
		Discount:       p.Discount,
		Image:          p.Image,
		Images:         nonNil(p.Images),
		Sizes:          nonNil(p.Sizes),
		Colors:         nonNil(p.Colors),
		Featured:       p.Featured,
		New:            p.New,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Specifications: p.Specifications,
		InStock:        p.Inventory > 0,
	}
	if p.OriginalPrice != nil {
		op := MoneyOf(*p.OriginalPrice, "")
		out.OriginalPrice = &op
	}
	return out
}

func ProductsOf(ps []catalog.Product) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, ProductOf(p))
	}
	return out
}

func CategoriesOf(cs []catalog.Category) []Category {
	out := make([]Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, Category{ID: c.ID, Name: c.Name, Image: c.Image})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
