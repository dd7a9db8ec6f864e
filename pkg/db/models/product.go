package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// Product represents a juice on the menu. Historical order lines snapshot
// name and price, so edits and deletes never rewrite past orders.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null;default:''"`
	PriceCents  int                   `gorm:"column:price_cents;not null"`
	Category    enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	ImageURL    string                `gorm:"column:image_url;not null;default:''"`
	Ingredients pq.StringArray        `gorm:"column:ingredients;type:text[];not null;default:ARRAY[]::text[]"`
	Benefits    pq.StringArray        `gorm:"column:benefits;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
