package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// Order is the durable record of a checkout. TotalCents is the sum of the
// snapshotted lines at creation time; display-time tax and delivery fees are
// never folded in.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	RecipientName   string               `gorm:"column:recipient_name;not null"`
	Phone           string               `gorm:"column:phone;not null"`
	Email           string               `gorm:"column:email;not null"`
	Address         *string              `gorm:"column:address"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;type:delivery_method;not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;type:payment_method;not null;default:'cash'"`
	TotalCents      int                  `gorm:"column:total_cents;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'pending'"`
	StatusChangedAt *time.Time           `gorm:"column:status_changed_at"`
	Lines           []OrderLine          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
