package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// LineInput is one cart line at checkout time. Name and unit price are
// snapshotted into the order so later catalog edits never rewrite history.
type LineInput struct {
	ProductID      uuid.UUID
	Name           string
	UnitPriceCents int
	Quantity       int
}

// CreateOrderInput holds the validated payload to place an order.
type CreateOrderInput struct {
	UserID         uuid.UUID
	RecipientName  string
	Phone          string
	Email          string
	Address        *string
	DeliveryMethod enums.DeliveryMethod
	PaymentMethod  enums.PaymentMethod
	Lines          []LineInput
}

// OrderLineDTO is the API projection of an order line.
type OrderLineDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	UnitPriceCents int        `json:"unit_price_cents"`
	Quantity       int        `json:"quantity"`
	TotalCents     int        `json:"total_cents"`
}

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	RecipientName   string               `json:"recipient_name"`
	Phone           string               `json:"phone"`
	Email           string               `json:"email"`
	Address         *string              `json:"address,omitempty"`
	DeliveryMethod  enums.DeliveryMethod `json:"delivery_method"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	TotalCents      int                  `json:"total_cents"`
	Status          enums.OrderStatus    `json:"status"`
	StatusChangedAt *time.Time           `json:"status_changed_at,omitempty"`
	Lines           []OrderLineDTO       `json:"lines"`
	CreatedAt       time.Time            `json:"created_at"`
}

func toDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineDTO{
			ID:             line.ID,
			ProductID:      line.ProductID,
			Name:           line.NameAtPurchase,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			TotalCents:     line.TotalCents,
		})
	}
	return &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		RecipientName:   order.RecipientName,
		Phone:           order.Phone,
		Email:           order.Email,
		Address:         order.Address,
		DeliveryMethod:  order.DeliveryMethod,
		PaymentMethod:   order.PaymentMethod,
		TotalCents:      order.TotalCents,
		Status:          order.Status,
		StatusChangedAt: order.StatusChangedAt,
		Lines:           lines,
		CreatedAt:       order.CreatedAt,
	}
}

func toEvent(dto *OrderDTO, changedAt time.Time) realtime.OrderEvent {
	lines := make([]realtime.OrderEventLine, 0, len(dto.Lines))
	for _, line := range dto.Lines {
		lines = append(lines, realtime.OrderEventLine{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			TotalCents:     line.TotalCents,
		})
	}
	return realtime.OrderEvent{
		OrderID:        dto.ID,
		UserID:         dto.UserID,
		RecipientName:  dto.RecipientName,
		DeliveryMethod: dto.DeliveryMethod,
		PaymentMethod:  dto.PaymentMethod,
		TotalCents:     dto.TotalCents,
		Status:         dto.Status,
		Lines:          lines,
		CreatedAt:      dto.CreatedAt,
		ChangedAt:      changedAt,
	}
}

func toDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *toDTO(&orders[i]))
	}
	return out
}
