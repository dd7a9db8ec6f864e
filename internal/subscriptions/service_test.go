package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	plans := `
CREATE TABLE IF NOT EXISTS subscription_plans (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  cadence TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	subs := `
CREATE TABLE IF NOT EXISTS user_subscriptions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  started_at DATETIME NOT NULL,
  next_delivery_date DATETIME NOT NULL,
  shipping_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS subscription_items (
  id TEXT PRIMARY KEY,
  subscription_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(plans).Error)
	require.NoError(t, db.Exec(subs).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func newSubscriptionsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupSubscriptionsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedPlan(t *testing.T, db *gorm.DB, name string, cadence enums.PlanCadence, active bool) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromFloat(29.99),
		Cadence:  cadence,
		IsActive: active,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func validSubscriptionInput(userID, planID uuid.UUID) CreateSubscriptionInput {
	return CreateSubscriptionInput{
		UserID:           userID,
		PlanID:           planID,
		NextDeliveryDate: time.Now().UTC().Add(48 * time.Hour),
		ShippingAddress:  "12 Orchard Lane",
		Items: []ItemInput{
			{ProductID: uuid.New(), Quantity: 2},
		},
	}
}

func TestCreatePlanValidatesInput(t *testing.T) {
	svc, _ := newSubscriptionsService(t)

	_, err := svc.CreatePlan(context.Background(), CreatePlanInput{
		Name:    "Weekly Greens",
		Price:   decimal.Zero,
		Cadence: enums.PlanCadenceWeekly,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreatePlan(context.Background(), CreatePlanInput{
		Name:    "Weekly Greens",
		Price:   decimal.NewFromFloat(29.99),
		Cadence: enums.PlanCadence("fortnightly"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListPlansReturnsOnlyActive(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	seedPlan(t, db, "Retired Plan", enums.PlanCadenceMonthly, false)

	plans, err := svc.ListPlans(context.Background())
	require.NoError(t, err)

	require.Len(t, plans, 1)
	assert.Equal(t, "Weekly Greens", plans[0].Name)
}

func TestCreateSubscriptionHappyPath(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	userID := uuid.New()

	sub, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(userID, plan.ID))
	require.NoError(t, err)

	assert.Equal(t, enums.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, plan.ID, sub.PlanID)
	require.NotNil(t, sub.Plan)
	assert.Equal(t, "Weekly Greens", sub.Plan.Name)
	require.Len(t, sub.Items, 1)
	assert.Equal(t, 2, sub.Items[0].Quantity)

	var itemCount int64
	require.NoError(t, db.Model(&models.SubscriptionItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestCreateSubscriptionRejectsPastDeliveryDate(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)

	input := validSubscriptionInput(uuid.New(), plan.ID)
	input.NextDeliveryDate = time.Now().UTC().Add(-time.Hour)

	_, err := svc.CreateSubscription(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateSubscriptionAcceptsDeliveryDateOfNow(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)

	fixed := time.Now().UTC().Truncate(time.Second)
	svc.(*service).now = func() time.Time { return fixed }

	input := validSubscriptionInput(uuid.New(), plan.ID)
	input.NextDeliveryDate = fixed

	sub, err := svc.CreateSubscription(context.Background(), input)
	require.NoError(t, err)
	assert.WithinDuration(t, fixed, sub.NextDeliveryDate, time.Second)
}

func TestCreateSubscriptionRejectsEmptyItems(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)

	input := validSubscriptionInput(uuid.New(), plan.ID)
	input.Items = nil

	_, err := svc.CreateSubscription(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateSubscriptionRejectsInactivePlan(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Retired Plan", enums.PlanCadenceMonthly, false)

	_, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(uuid.New(), plan.ID))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSetStatusAllowsAnyDirection(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	userID := uuid.New()

	sub, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(userID, plan.ID))
	require.NoError(t, err)

	paused, err := svc.SetStatus(context.Background(), userID, enums.UserRoleCustomer, sub.ID, enums.SubscriptionStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, enums.SubscriptionStatusPaused, paused.Status)

	cancelled, err := svc.SetStatus(context.Background(), userID, enums.UserRoleCustomer, sub.ID, enums.SubscriptionStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.SubscriptionStatusCancelled, cancelled.Status)

	reactivated, err := svc.SetStatus(context.Background(), userID, enums.UserRoleCustomer, sub.ID, enums.SubscriptionStatusActive)
	require.NoError(t, err)
	assert.Equal(t, enums.SubscriptionStatusActive, reactivated.Status)
}

func TestSetStatusEnforcesOwnership(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	owner := uuid.New()

	sub, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(owner, plan.ID))
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), uuid.New(), enums.UserRoleCustomer, sub.ID, enums.SubscriptionStatusPaused)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = svc.SetStatus(context.Background(), uuid.New(), enums.UserRoleBusinessOwner, sub.ID, enums.SubscriptionStatusPaused)
	require.NoError(t, err)
}

func TestListActiveOrdersBySoonestDelivery(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)

	later := validSubscriptionInput(uuid.New(), plan.ID)
	later.NextDeliveryDate = time.Now().UTC().Add(96 * time.Hour)
	laterSub, err := svc.CreateSubscription(context.Background(), later)
	require.NoError(t, err)

	sooner := validSubscriptionInput(uuid.New(), plan.ID)
	sooner.NextDeliveryDate = time.Now().UTC().Add(24 * time.Hour)
	soonerSub, err := svc.CreateSubscription(context.Background(), sooner)
	require.NoError(t, err)

	paused := validSubscriptionInput(uuid.New(), plan.ID)
	pausedSub, err := svc.CreateSubscription(context.Background(), paused)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), pausedSub.UserID, enums.UserRoleCustomer, pausedSub.ID, enums.SubscriptionStatusPaused)
	require.NoError(t, err)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, active, 2)
	assert.Equal(t, soonerSub.ID, active[0].ID)
	assert.Equal(t, laterSub.ID, active[1].ID)
}

func TestListForUserReturnsOwnSubscriptionsOnly(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	userID := uuid.New()

	_, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(userID, plan.ID))
	require.NoError(t, err)
	_, err = svc.CreateSubscription(context.Background(), validSubscriptionInput(uuid.New(), plan.ID))
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, userID, list[0].UserID)
}

func TestUpdateNextDeliveryReschedules(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	userID := uuid.New()

	sub, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(userID, plan.ID))
	require.NoError(t, err)

	next := time.Now().UTC().Add(240 * time.Hour).Truncate(time.Second)
	updated, err := svc.UpdateNextDelivery(context.Background(), userID, enums.UserRoleCustomer, sub.ID, next)
	require.NoError(t, err)
	assert.WithinDuration(t, next, updated.NextDeliveryDate, time.Second)

	fetched, err := svc.GetSubscription(context.Background(), userID, enums.UserRoleCustomer, sub.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, next, fetched.NextDeliveryDate, time.Second)
}

func TestUpdateNextDeliveryRejectsPastDate(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	userID := uuid.New()

	sub, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(userID, plan.ID))
	require.NoError(t, err)

	_, err = svc.UpdateNextDelivery(context.Background(), userID, enums.UserRoleCustomer, sub.ID, time.Now().UTC().Add(-time.Hour))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateNextDeliveryRejectsCancelled(t *testing.T) {
	svc, db := newSubscriptionsService(t)
	plan := seedPlan(t, db, "Weekly Greens", enums.PlanCadenceWeekly, true)
	userID := uuid.New()

	sub, err := svc.CreateSubscription(context.Background(), validSubscriptionInput(userID, plan.ID))
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), userID, enums.UserRoleCustomer, sub.ID, enums.SubscriptionStatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateNextDelivery(context.Background(), userID, enums.UserRoleCustomer, sub.ID, time.Now().UTC().Add(48*time.Hour))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}
