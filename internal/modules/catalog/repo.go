package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductRow is the products table.
type ProductRow struct {
	ID             string              `gorm:"type:varchar(36);primaryKey"`
	Slug           string              `gorm:"type:varchar(191);uniqueIndex"`
	Name           string              `gorm:"type:varchar(255);not null"`
	Category       string              `gorm:"type:varchar(64);index"`
	Description    string              `gorm:"type:text"`
	Price          decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	OriginalPrice  decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Discount       int
	Image          string `gorm:"type:varchar(1024)"`
	Images         datatypes.JSON
	Sizes          datatypes.JSON
	Colors         datatypes.JSON
	Specifications datatypes.JSON
	Featured       bool `gorm:"index"`
	IsNew          bool `gorm:"index"`
	Rating         float64
	ReviewCount    int
	Inventory      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProductRow) TableName() string { return "products" }

type CategoryRow struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	Name     string `gorm:"type:varchar(128);not null"`
	Image    string `gorm:"type:varchar(1024)"`
	Position int
}

func (CategoryRow) TableName() string { return "categories" }

// Models lists the tables owned by the catalog for migrations.
func Models() []any { return []any{&ProductRow{}, &CategoryRow{}} }

type GormRepo struct{ db *gorm.DB }

func NewGormRepo(db *gorm.DB) *GormRepo { return &GormRepo{db: db} }

func (r *GormRepo) List(ctx context.Context, f Filter) ([]Product, error) {
	q := r.db.WithContext(ctx).Model(&ProductRow{})
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Featured {
		q = q.Where("featured = ?", true)
	}
	if f.New {
		q = q.Where("is_new = ?", true)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var rows []ProductRow
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}

func (r *GormRepo) Get(ctx context.Context, id string) (Product, error) {
	var row ProductRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return row.toProduct(), nil
}

func (r *GormRepo) Categories(ctx context.Context) ([]Category, error) {
	var rows []CategoryRow
	if err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, Category{ID: c.ID, Name: c.Name, Image: c.Image})
	}
	return out, nil
}

func (r *GormRepo) Create(ctx context.Context, p Product) error {
	if err := CheckID(p.ID); err != nil {
		return err
	}
	row := rowFromProduct(p)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ProductRow{}).Count(&n).Error
	return n, err
}

// Import upserts categories and products, so re-running the seed is harmless.
func (r *GormRepo) Import(ctx context.Context, cats []Category, products []Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, c := range cats {
			row := CategoryRow{ID: c.ID, Name: c.Name, Image: c.Image, Position: i}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		for _, p := range products {
			if err := CheckID(p.ID); err != nil {
				return err
			}
			row := rowFromProduct(p)
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func rowFromProduct(p Product) ProductRow {
	row := ProductRow{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Category:       p.Category,
		Description:    p.Description,
		Price:          p.Price,
		Discount:       p.Discount,
		Image:          p.Image,
		Images:         mustJSON(p.Images),
		Sizes:          mustJSON(p.Sizes),
		Colors:         mustJSON(p.Colors),
		Specifications: mustJSON(p.Specifications),
		Featured:       p.Featured,
		IsNew:          p.New,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Inventory:      p.Inventory,
		CreatedAt:      p.CreatedAt,
	}
	if p.OriginalPrice != nil {
		row.OriginalPrice = decimal.NewNullDecimal(*p.OriginalPrice)
	}
	return row
}

func (row ProductRow) toProduct() Product {
	p := Product{
		ID:          row.ID,
		Slug:        row.Slug,
		Name:        row.Name,
		Category:    row.Category,
		Description: row.Description,
		Price:       row.Price,
		Discount:    row.Discount,
		Image:       row.Image,
		Featured:    row.Featured,
		New:         row.IsNew,
		Rating:      row.Rating,
		ReviewCount: row.ReviewCount,
		Inventory:   row.Inventory,
		CreatedAt:   row.CreatedAt,
	}
	if row.OriginalPrice.Valid {
		op := row.OriginalPrice.Decimal
		p.OriginalPrice = &op
	}
	_ = json.Unmarshal(row.Images, &p.Images)
	_ = json.Unmarshal(row.Sizes, &p.Sizes)
	_ = json.Unmarshal(row.Colors, &p.Colors)
	_ = json.Unmarshal(row.Specifications, &p.Specifications)
	return p
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
