package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// Repository persists subscription plans and user subscriptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindPlanByID loads a plan by primary key.
func (r *Repository) FindPlanByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActivePlans returns active plans ordered by price.
func (r *Repository) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var rows []models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListAllPlans returns every plan including inactive ones.
func (r *Repository) ListAllPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var rows []models.SubscriptionPlan
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreatePlan inserts a new plan row.
func (r *Repository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan saves mutated plan fields.
func (r *Repository) UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

// Create inserts the subscription together with its items.
func (r *Repository) Create(ctx context.Context, sub *models.UserSubscription) (*models.UserSubscription, error) {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// FindByID loads a subscription with its plan and items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Items").
		First(&sub, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByUser returns the user's subscriptions, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserSubscription, error) {
	var rows []models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListActive returns active subscriptions ordered by the soonest delivery.
func (r *Repository) ListActive(ctx context.Context) ([]models.UserSubscription, error) {
	var rows []models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Items").
		Where("status = ?", enums.SubscriptionStatusActive).
		Order("next_delivery_date ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListDue returns active subscriptions whose next delivery is at or before
// the cutoff, soonest first.
func (r *Repository) ListDue(ctx context.Context, cutoff time.Time, limit int) ([]models.UserSubscription, error) {
	var rows []models.UserSubscription
	query := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Items").
		Where("status = ? AND next_delivery_date <= ?", enums.SubscriptionStatusActive, cutoff).
		Order("next_delivery_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	return rows, err
}

// UpdateStatus writes the new subscription status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SubscriptionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// UpdateNextDeliveryDate advances the subscription's next delivery.
func (r *Repository) UpdateNextDeliveryDate(ctx context.Context, id uuid.UUID, next time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("id = ?", id).
		Update("next_delivery_date", next).
		Error
}
