package catalog

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"glamup.com/app/internal/shared/slug"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
	Products   []seedProduct  `yaml:"products"`
}

type seedCategory struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

type seedProduct struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Price          string            `yaml:"price"`
	OriginalPrice  string            `yaml:"original_price"`
	Discount       int               `yaml:"discount"`
	Image          string            `yaml:"image"`
	Images         []string          `yaml:"images"`
	Category       string            `yaml:"category"`
	Description    string            `yaml:"description"`
	Featured       bool              `yaml:"featured"`
	New            bool              `yaml:"new"`
	Sizes          []string          `yaml:"sizes"`
	Colors         []string          `yaml:"colors"`
	Rating         float64           `yaml:"rating"`
	ReviewCount    int               `yaml:"review_count"`
	Inventory      int               `yaml:"inventory"`
	Specifications map[string]string `yaml:"specifications"`
}

// Seed decodes the embedded storefront catalog.
func Seed() ([]Category, []Product, error) {
	return parseSeed(seedYAML)
}

func parseSeed(raw []byte) ([]Category, []Product, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("catalog seed: %w", err)
	}

	cats := make([]Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		cats = append(cats, Category(c))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := make([]Product, 0, len(f.Products))
	for i, sp := range f.Products {
		if err := CheckID(sp.ID); err != nil {
			return nil, nil, fmt.Errorf("catalog seed: %w", err)
		}
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog seed: product %s price: %w", sp.ID, err)
		}
		p := Product{
			ID:             sp.ID,
			Slug:           slug.FromName(sp.Name),
			Name:           sp.Name,
			Category:       sp.Category,
			Description:    sp.Description,
			Price:          price,
			Discount:       sp.Discount,
			Image:          sp.Image,
			Images:         sp.Images,
			Sizes:          sp.Sizes,
			Colors:         sp.Colors,
			Featured:       sp.Featured,
			New:            sp.New,
			Rating:         sp.Rating,
			ReviewCount:    sp.ReviewCount,
			Specifications: sp.Specifications,
			Inventory:      sp.Inventory,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if sp.OriginalPrice != "" {
			op, err := decimal.NewFromString(sp.OriginalPrice)
			if err != nil {
				return nil, nil, fmt.Errorf("catalog seed: product %s original price: %w", sp.ID, err)
			}
			p.OriginalPrice = &op
		}
		if p.Image == "" && len(p.Images) > 0 {
			p.Image = p.Images[0]
		}
		products = append(products, p)
	}
	return cats, products, nil
}
