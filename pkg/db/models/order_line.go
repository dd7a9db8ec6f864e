package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine captures the immutable snapshot of each item within an order.
// ProductID is nullable so catalog deletes never touch historical lines.
type OrderLine struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	NameAtPurchase string     `gorm:"column:name_at_purchase;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
