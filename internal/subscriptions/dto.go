package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// CreatePlanInput holds the validated payload to create a plan.
type CreatePlanInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Cadence     enums.PlanCadence
	IsActive    bool
}

// UpdatePlanInput holds optional mutation values for a plan.
type UpdatePlanInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Cadence     *enums.PlanCadence
	IsActive    *bool
}

// PlanDTO is the API projection of a subscription plan.
type PlanDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Cadence     enums.PlanCadence `json:"cadence"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ItemInput pins a product and quantity onto a new subscription.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSubscriptionInput holds the validated payload to start a subscription.
type CreateSubscriptionInput struct {
	UserID           uuid.UUID
	PlanID           uuid.UUID
	NextDeliveryDate time.Time
	ShippingAddress  string
	Items            []ItemInput
}

// ItemDTO is the API projection of a subscription item.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SubscriptionDTO is the API projection of a user subscription.
type SubscriptionDTO struct {
	ID               uuid.UUID                `json:"id"`
	UserID           uuid.UUID                `json:"user_id"`
	PlanID           uuid.UUID                `json:"plan_id"`
	Plan             *PlanDTO                 `json:"plan,omitempty"`
	Status           enums.SubscriptionStatus `json:"status"`
	StartedAt        time.Time                `json:"started_at"`
	NextDeliveryDate time.Time                `json:"next_delivery_date"`
	ShippingAddress  string                   `json:"shipping_address"`
	Items            []ItemDTO                `json:"items"`
	CreatedAt        time.Time                `json:"created_at"`
}

func planToDTO(plan *models.SubscriptionPlan) *PlanDTO {
	if plan == nil {
		return nil
	}
	return &PlanDTO{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		Price:       plan.Price,
		Cadence:     plan.Cadence,
		IsActive:    plan.IsActive,
		CreatedAt:   plan.CreatedAt,
	}
}

func planToDTOs(plans []models.SubscriptionPlan) []PlanDTO {
	out := make([]PlanDTO, 0, len(plans))
	for i := range plans {
		out = append(out, *planToDTO(&plans[i]))
	}
	return out
}

func toDTO(sub *models.UserSubscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(sub.Items))
	for _, item := range sub.Items {
		items = append(items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return &SubscriptionDTO{
		ID:               sub.ID,
		UserID:           sub.UserID,
		PlanID:           sub.PlanID,
		Plan:             planToDTO(sub.Plan),
		Status:           sub.Status,
		StartedAt:        sub.StartedAt,
		NextDeliveryDate: sub.NextDeliveryDate,
		ShippingAddress:  sub.ShippingAddress,
		Items:            items,
		CreatedAt:        sub.CreatedAt,
	}
}

func toDTOs(subs []models.UserSubscription) []SubscriptionDTO {
	out := make([]SubscriptionDTO, 0, len(subs))
	for i := range subs {
		out = append(out, *toDTO(&subs[i]))
	}
	return out
}
