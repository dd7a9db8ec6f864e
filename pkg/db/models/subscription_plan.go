package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// SubscriptionPlan is a business-owner-managed recurring offer.
type SubscriptionPlan struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Description string            `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	Cadence     enums.PlanCadence `gorm:"column:cadence;type:plan_cadence;not null"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
