package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Create(ctx context.Context, o *Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := o.Items
		o.Items = nil
		defer func() { o.Items = items }()

		if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderID = o.ID
		}
		return tx.Create(&items).Error
	})
}

func (s *GormStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	var out []Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (s *GormStore) AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	in = in.normalized()
	q := strings.TrimSpace(in.Q)
	status := strings.TrimSpace(in.Status)

	base := s.db.WithContext(ctx).Model(&Order{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if q != "" {
		like := "%" + q + "%"
		base = base.Where("(id LIKE ? OR customer_email LIKE ? OR customer_name LIKE ?)", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return AdminListResult{}, err
	}

	var items []Order
	if err := base.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC, id DESC").
		Limit(in.PageSize).
		Offset((in.Page - 1) * in.PageSize).
		Find(&items).Error; err != nil {
		return AdminListResult{}, err
	}
	return AdminListResult{Items: items, Total: total}, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, id string, decide func(Order) (string, error), ev OrderEvent) (Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order

		// row lock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		from := o.Status
		to, err := decide(o)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, from). // optimistic guard
			Updates(map[string]any{"status": to, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusChanged
		}

		ev.OrderID = o.ID
		ev.FromStatus = from
		ev.ToStatus = to
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = now
		}
		return tx.Create(&ev).Error
	})
	if err != nil {
		return Order{}, err
	}
	return s.Get(ctx, id)
}

func (s *GormStore) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	db := s.db.WithContext(ctx)

	if err := db.Model(&Order{}).Count(&out.Orders).Error; err != nil {
		return Summary{}, err
	}
	if err := db.Model(&Order{}).Where("status = ?", StatusPending).Count(&out.Pending).Error; err != nil {
		return Summary{}, err
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&Order{}).
		Where("status <> ?", StatusCancelled).
		Select("SUM(total)").
		Row().Scan(&revenue); err != nil {
		return Summary{}, err
	}
	out.Revenue = decimal.Zero
	if revenue.Valid {
		out.Revenue = revenue.Decimal.Round(2)
	}

	if err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC, id DESC").
		Limit(recentLimit).
		Find(&out.Recent).Error; err != nil {
		return Summary{}, err
	}
	return out, nil
}
