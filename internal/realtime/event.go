package realtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// OrderEventLine is one order line as carried in an event payload.
type OrderEventLine struct {
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	UnitPriceCents int        `json:"unit_price_cents"`
	Quantity       int        `json:"quantity"`
	TotalCents     int        `json:"total_cents"`
}

// OrderEvent announces a status change on a single order. It carries the
// full updated order so watchers never have to issue a follow-up read to
// learn what changed.
type OrderEvent struct {
	OrderID        uuid.UUID            `json:"order_id"`
	UserID         uuid.UUID            `json:"user_id"`
	RecipientName  string               `json:"recipient_name"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	TotalCents     int                  `json:"total_cents"`
	Status         enums.OrderStatus    `json:"status"`
	Lines          []OrderEventLine     `json:"lines"`
	CreatedAt      time.Time            `json:"created_at"`
	ChangedAt      time.Time            `json:"changed_at"`
}
