package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juicejoy/juicejoy-backend/api/responses"
	"github.com/juicejoy/juicejoy-backend/api/validators"
	subssvc "github.com/juicejoy/juicejoy-backend/internal/subscriptions"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

// ListPlans returns the active subscription plans.
func ListPlans(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		plans, err := svc.ListPlans(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plans)
	}
}

// BusinessListPlans returns every plan, retired ones included.
func BusinessListPlans(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		plans, err := svc.ListAllPlans(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plans)
	}
}

type createPlanRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=160"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Cadence     string          `json:"cadence" validate:"required"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

// BusinessCreatePlan adds a subscription plan.
func BusinessCreatePlan(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		var payload createPlanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cadence, err := enums.ParsePlanCadence(strings.TrimSpace(payload.Cadence))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cadence"))
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}

		plan, err := svc.CreatePlan(r.Context(), subssvc.CreatePlanInput{
			Name:        validators.SanitizeString(payload.Name, 160),
			Description: validators.SanitizeString(payload.Description, 2000),
			Price:       payload.Price,
			Cadence:     cadence,
			IsActive:    isActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, plan)
	}
}

type updatePlanRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cadence     *string          `json:"cadence,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// BusinessUpdatePlan applies a partial update to a plan.
func BusinessUpdatePlan(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		planID, err := pathUUID(r, "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePlanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := subssvc.UpdatePlanInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			IsActive:    payload.IsActive,
		}
		if payload.Cadence != nil {
			cadence, err := enums.ParsePlanCadence(strings.TrimSpace(*payload.Cadence))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cadence"))
				return
			}
			input.Cadence = &cadence
		}

		plan, err := svc.UpdatePlan(r.Context(), planID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plan)
	}
}

type subscriptionItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type createSubscriptionRequest struct {
	PlanID           uuid.UUID                 `json:"plan_id" validate:"required"`
	NextDeliveryDate time.Time                 `json:"next_delivery_date" validate:"required"`
	ShippingAddress  string                    `json:"shipping_address" validate:"required,min=1,max=500"`
	Items            []subscriptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SubscriptionCreate starts a subscription for the caller.
func SubscriptionCreate(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createSubscriptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]subssvc.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, subssvc.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		sub, err := svc.CreateSubscription(r.Context(), subssvc.CreateSubscriptionInput{
			UserID:           userID,
			PlanID:           payload.PlanID,
			NextDeliveryDate: payload.NextDeliveryDate,
			ShippingAddress:  validators.SanitizeString(payload.ShippingAddress, 500),
			Items:            items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sub)
	}
}

// SubscriptionList returns the caller's subscriptions.
func SubscriptionList(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subs, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, subs)
	}
}

// SubscriptionDetail returns one subscription, enforcing ownership for
// customers.
func SubscriptionDetail(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subID, err := pathUUID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.GetSubscription(r.Context(), userID, role, subID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sub)
	}
}

type setSubscriptionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SubscriptionSetStatus pauses, resumes, or cancels a subscription.
func SubscriptionSetStatus(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subID, err := pathUUID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setSubscriptionStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseSubscriptionStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription status"))
			return
		}

		sub, err := svc.SetStatus(r.Context(), userID, role, subID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sub)
	}
}

type updateNextDeliveryRequest struct {
	NextDeliveryDate time.Time `json:"next_delivery_date" validate:"required"`
}

// SubscriptionUpdateNextDelivery reschedules the upcoming delivery.
func SubscriptionUpdateNextDelivery(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subID, err := pathUUID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateNextDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.UpdateNextDelivery(r.Context(), userID, role, subID, payload.NextDeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sub)
	}
}

// BusinessSubscriptionList returns active subscriptions ordered by soonest
// delivery.
func BusinessSubscriptionList(svc subssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		subs, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, subs)
	}
}
