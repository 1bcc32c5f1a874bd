package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var statusLabels = map[string]string{
	StatusPending:    "Pending",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

// StatusLabel is the display form of a status; unknown values pass through.
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func ValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

type Order struct {
	ID              string          `gorm:"type:varchar(36);primaryKey"`
	UserID          string          `gorm:"type:varchar(36);not null;index:ix_orders_user_created,priority:1"`
	CustomerName    string          `gorm:"type:varchar(255)"`
	CustomerEmail   string          `gorm:"type:varchar(191);index"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAddress string          `gorm:"type:text;not null"`
	PaymentMethod   string          `gorm:"type:varchar(16);not null"`
	CreatedAt       time.Time       `gorm:"index:ix_orders_user_created,priority:2"`
	UpdatedAt       time.Time

	Items  []OrderItem  `gorm:"foreignKey:OrderID"`
	Events []OrderEvent `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

type OrderItem struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	OrderID     string          `gorm:"type:varchar(36);not null;index"`
	Position    int             `gorm:"not null"`
	ProductID   string          `gorm:"type:varchar(36);not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Image       string          `gorm:"type:varchar(1024)"`
	Size        string          `gorm:"type:varchar(32)"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderEvent struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	OrderID     string    `gorm:"type:varchar(36);not null;index"`
	ActorUserID string    `gorm:"type:varchar(36);not null"`
	Action      string    `gorm:"type:varchar(16);not null"`
	FromStatus  string    `gorm:"type:varchar(16);not null"`
	ToStatus    string    `gorm:"type:varchar(16);not null"`
	Note        *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (OrderEvent) TableName() string { return "order_events" }

// Models lists the tables owned by orders for migrations.
func Models() []any { return []any{&Order{}, &OrderItem{}, &OrderEvent{}} }
