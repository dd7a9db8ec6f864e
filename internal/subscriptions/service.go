package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
)

// Service exposes plan management plus the customer subscription lifecycle.
// Pause, resume, and cancel are always explicit actions; the system never
// infers a status change.
type Service interface {
	ListPlans(ctx context.Context) ([]PlanDTO, error)
	ListAllPlans(ctx context.Context) ([]PlanDTO, error)
	CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanDTO, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*PlanDTO, error)

	CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*SubscriptionDTO, error)
	GetSubscription(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, subID uuid.UUID) (*SubscriptionDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]SubscriptionDTO, error)
	ListActive(ctx context.Context) ([]SubscriptionDTO, error)
	SetStatus(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, subID uuid.UUID, status enums.SubscriptionStatus) (*SubscriptionDTO, error)
	UpdateNextDelivery(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, subID uuid.UUID, next time.Time) (*SubscriptionDTO, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a subscriptions service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) ListPlans(ctx context.Context) ([]PlanDTO, error) {
	rows, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list plans")
	}
	return planToDTOs(rows), nil
}

func (s *service) ListAllPlans(ctx context.Context) ([]PlanDTO, error) {
	rows, err := s.repo.ListAllPlans(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list plans")
	}
	return planToDTOs(rows), nil
}

func (s *service) CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if !input.Cadence.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cadence")
	}

	plan := &models.SubscriptionPlan{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Cadence:     input.Cadence,
		IsActive:    input.IsActive,
	}
	created, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert plan")
	}
	return planToDTO(created), nil
}

func (s *service) UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*PlanDTO, error) {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		plan.Name = trimmed
	}
	if input.Description != nil {
		plan.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		plan.Price = *input.Price
	}
	if input.Cadence != nil {
		if !input.Cadence.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cadence")
		}
		plan.Cadence = *input.Cadence
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdatePlan(ctx, plan)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update plan")
	}
	return planToDTO(updated), nil
}

// CreateSubscription starts a subscription against an active plan. The first
// delivery must be scheduled in the future and the item list cannot be empty.
func (s *service) CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*SubscriptionDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	now := s.now()
	if input.NextDeliveryDate.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "next delivery date must not be in the past")
	}

	plan, err := s.findPlan(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan is not active")
	}

	items := make([]models.SubscriptionItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.SubscriptionItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	sub := &models.UserSubscription{
		UserID:           input.UserID,
		PlanID:           plan.ID,
		Status:           enums.SubscriptionStatusActive,
		StartedAt:        now,
		NextDeliveryDate: input.NextDeliveryDate,
		ShippingAddress:  strings.TrimSpace(input.ShippingAddress),
		Items:            items,
	}
	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert subscription")
	}
	created.Plan = plan
	return toDTO(created), nil
}

func (s *service) GetSubscription(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, subID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.findSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	if actorRole != enums.UserRoleBusinessOwner && sub.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "subscription belongs to another user")
	}
	return toDTO(sub), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]SubscriptionDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list subscriptions")
	}
	return toDTOs(rows), nil
}

func (s *service) ListActive(ctx context.Context) ([]SubscriptionDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list subscriptions")
	}
	return toDTOs(rows), nil
}

// SetStatus moves the subscription between active, paused, and cancelled.
// Any direction is allowed, including reactivating a cancelled subscription.
func (s *service) SetStatus(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, subID uuid.UUID, status enums.SubscriptionStatus) (*SubscriptionDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown subscription status")
	}

	sub, err := s.findSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	if actorRole != enums.UserRoleBusinessOwner && sub.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "subscription belongs to another user")
	}

	if sub.Status == status {
		return toDTO(sub), nil
	}
	if err := s.repo.UpdateStatus(ctx, subID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update subscription status")
	}
	sub.Status = status
	return toDTO(sub), nil
}

// UpdateNextDelivery reschedules the upcoming delivery. The new date must
// not be in the past; the plan cadence keeps advancing from it afterwards.
func (s *service) UpdateNextDelivery(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, subID uuid.UUID, next time.Time) (*SubscriptionDTO, error) {
	if next.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "next delivery date must not be in the past")
	}

	sub, err := s.findSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	if actorRole != enums.UserRoleBusinessOwner && sub.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "subscription belongs to another user")
	}
	if sub.Status == enums.SubscriptionStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled subscription cannot be rescheduled")
	}

	if err := s.repo.UpdateNextDeliveryDate(ctx, subID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update next delivery date")
	}
	sub.NextDeliveryDate = next
	return toDTO(sub), nil
}

func (s *service) findPlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error) {
	plan, err := s.repo.FindPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load plan")
	}
	return plan, nil
}

func (s *service) findSubscription(ctx context.Context, subID uuid.UUID) (*models.UserSubscription, error) {
	sub, err := s.repo.FindByID(ctx, subID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load subscription")
	}
	return sub, nil
}
