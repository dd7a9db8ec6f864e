package payments

import (
	"time"

	"github.com/google/uuid"
)

// Event types the processor callback can carry. The processor handles the
// charge itself out of band; the callback only reports that it succeeded,
// together with the purchase it covered.
const (
	EventTypeOrderPaid        = "order.paid"
	EventTypeSubscriptionPaid = "subscription.paid"
)

// Event is the decoded payment callback payload.
type Event struct {
	EventID string    `json:"event_id"`
	Type    string    `json:"type"`
	UserID  uuid.UUID `json:"user_id"`

	Order        *OrderPayload        `json:"order,omitempty"`
	Subscription *SubscriptionPayload `json:"subscription,omitempty"`
}

// OrderPayload describes the paid checkout. Lines carry product ids and
// quantities only; name and price are re-snapshotted from the catalog when
// the order is placed.
type OrderPayload struct {
	RecipientName  string        `json:"recipient_name"`
	Phone          string        `json:"phone"`
	Email          string        `json:"email"`
	Address        *string       `json:"address,omitempty"`
	DeliveryMethod string        `json:"delivery_method"`
	Lines          []LinePayload `json:"lines"`
}

type LinePayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SubscriptionPayload describes the paid subscription signup.
type SubscriptionPayload struct {
	PlanID           uuid.UUID     `json:"plan_id"`
	NextDeliveryDate time.Time     `json:"next_delivery_date"`
	ShippingAddress  string        `json:"shipping_address"`
	Items            []ItemPayload `json:"items"`
}

type ItemPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
