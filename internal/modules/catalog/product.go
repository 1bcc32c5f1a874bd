package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrInvalidID = errors.New("invalid product id")
)

// CheckID rejects ids that cannot be embedded in a cart line key ("<id>:<size>")
// or a URL path segment.
func CheckID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, ":/") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Product is an immutable catalog record. Cart items snapshot name, price and image
// from it at add time.
type Product struct {
	ID             string
	Slug           string
	Name           string
	Category       string
	Description    string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal
	Discount       int
	Image          string
	Images         []string
	Sizes          []string
	Colors         []string
	Featured       bool
	New            bool
	Rating         float64
	ReviewCount    int
	Specifications map[string]string
	Inventory      int
	CreatedAt      time.Time
}

type Category struct {
	ID    string
	Name  string
	Image string
}

// ResolveSize checks a requested size against the product's size list and
// returns its canonical spelling. "" is always accepted: a quick add from a
// product card carries no size and becomes its own cart line.
func (p Product) ResolveSize(size string) (string, bool) {
	size = strings.TrimSpace(size)
	if size == "" {
		return "", true
	}
	for _, s := range p.Sizes {
		if strings.EqualFold(s, size) {
			return s, true
		}
	}
	return "", false
}

type Filter struct {
	Category string
	Featured bool
	New      bool
	Query    string
	Limit    int
}

func (f Filter) match(p Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.New && !p.New {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	return true
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, p Product) error
	Count(ctx context.Context) (int64, error)
}
