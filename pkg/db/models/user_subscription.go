package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// UserSubscription is a recurring purchase agreement against a plan. The
// delivery worker materializes it into orders; status changes are always
// owner- or business-initiated, never system-inferred.
type UserSubscription struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PlanID           uuid.UUID                `gorm:"column:plan_id;type:uuid;not null"`
	Plan             *SubscriptionPlan        `gorm:"foreignKey:PlanID"`
	Status           enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	StartedAt        time.Time                `gorm:"column:started_at;not null"`
	NextDeliveryDate time.Time                `gorm:"column:next_delivery_date;not null"`
	ShippingAddress  string                   `gorm:"column:shipping_address;not null"`
	Items            []SubscriptionItem       `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// SubscriptionItem pins a product and quantity to a subscription.
type SubscriptionItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID uuid.UUID `gorm:"column:subscription_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
