package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/internal/cart"
	"github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
	redisclient "github.com/juicejoy/juicejoy-backend/pkg/redis"
)

const deliveryJobName = "subscription-deliveries"

// Marks must outlive any plausible retry window for a cycle whose date
// advance keeps failing; once the date moves, the old mark is dead weight.
const deliveryMarkTTL = 30 * 24 * time.Hour

type dueSubscriptionRepo interface {
	ListDue(ctx context.Context, cutoff time.Time, limit int) ([]models.UserSubscription, error)
	UpdateNextDeliveryDate(ctx context.Context, id uuid.UUID, next time.Time) error
}

type orderCreator interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type productSnapshotter interface {
	SnapshotProduct(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error)
}

type deliveryMarker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// DeliveryJobParams configures the subscription materialization job.
type DeliveryJobParams struct {
	Logger        *logger.Logger
	Subscriptions dueSubscriptionRepo
	Orders        orderCreator
	Users         userLoader
	Catalog       productSnapshotter
	Marker        deliveryMarker
	BatchSize     int
}

// NewDeliveryJob constructs the job that turns due subscriptions into orders.
func NewDeliveryJob(params DeliveryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if params.Marker == nil {
		return nil, fmt.Errorf("delivery marker required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &deliveryJob{
		logg:      params.Logger,
		subs:      params.Subscriptions,
		orders:    params.Orders,
		users:     params.Users,
		catalog:   params.Catalog,
		marker:    params.Marker,
		batchSize: batch,
		now:       time.Now,
	}, nil
}

type deliveryJob struct {
	logg      *logger.Logger
	subs      dueSubscriptionRepo
	orders    orderCreator
	users     userLoader
	catalog   productSnapshotter
	marker    deliveryMarker
	batchSize int
	now       func() time.Time
}

func (j *deliveryJob) Name() string {
	return deliveryJobName
}

// Run materializes every due active subscription into a delivery order, then
// advances its next delivery date by one cadence period. A subscription that
// fails stays due and is retried on the next cycle.
func (j *deliveryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	due, err := j.subs.ListDue(ctx, now, j.batchSize)
	if err != nil {
		return fmt.Errorf("list due subscriptions: %w", err)
	}

	var failures int
	for _, sub := range due {
		subCtx := j.logg.WithField(ctx, "subscription_id", sub.ID.String())
		if err := j.materialize(subCtx, &sub); err != nil {
			failures++
			j.logg.Error(subCtx, "subscription delivery failed", err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d due subscriptions failed", failures, len(due))
	}
	return nil
}

// materialize places at most one order per (subscription, due date) cycle.
// The Redis mark is claimed before the order is created, so a cycle whose
// date advance failed is retried without placing a duplicate order.
func (j *deliveryJob) materialize(ctx context.Context, sub *models.UserSubscription) error {
	if sub.Plan == nil {
		return fmt.Errorf("subscription %s has no plan loaded", sub.ID)
	}

	mark := cycleMark(sub)
	fresh, err := j.marker.SetNX(ctx, mark, 1, deliveryMarkTTL)
	if err != nil {
		return fmt.Errorf("claim delivery cycle: %w", err)
	}
	if fresh {
		if err := j.placeOrder(ctx, sub); err != nil {
			if delErr := j.marker.Del(ctx, mark); delErr != nil {
				j.logg.Warn(ctx, fmt.Sprintf("releasing delivery cycle mark: %v", delErr))
			}
			return err
		}
	}

	next := sub.Plan.Cadence.NextDelivery(sub.NextDeliveryDate)
	if err := j.subs.UpdateNextDeliveryDate(ctx, sub.ID, next); err != nil {
		return fmt.Errorf("advance next delivery date: %w", err)
	}
	return nil
}

func cycleMark(sub *models.UserSubscription) string {
	cycle := fmt.Sprintf("%s:%s", sub.ID, sub.NextDeliveryDate.UTC().Format(time.RFC3339))
	return redisclient.IdempotencyKey("delivery", cycle)
}

func (j *deliveryJob) placeOrder(ctx context.Context, sub *models.UserSubscription) error {
	user, err := j.users.FindByID(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	lines := make([]orders.LineInput, 0, len(sub.Items))
	for _, item := range sub.Items {
		snapshot, err := j.catalog.SnapshotProduct(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("snapshot product %s: %w", item.ProductID, err)
		}
		lines = append(lines, orders.LineInput{
			ProductID:      snapshot.ProductID,
			Name:           snapshot.Name,
			UnitPriceCents: snapshot.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}

	address := sub.ShippingAddress
	input := orders.CreateOrderInput{
		UserID:         sub.UserID,
		RecipientName:  recipientName(user),
		Phone:          stringOrEmpty(user.Phone),
		Email:          stringOrEmpty(user.Email),
		Address:        &address,
		DeliveryMethod: enums.DeliveryMethodDelivery,
		PaymentMethod:  enums.PaymentMethodOnline,
		Lines:          lines,
	}
	if _, err := j.orders.CreateOrder(ctx, input); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func recipientName(user *models.User) string {
	if user.Name != nil && *user.Name != "" {
		return *user.Name
	}
	if user.Email != nil && *user.Email != "" {
		return *user.Email
	}
	if user.Phone != nil {
		return *user.Phone
	}
	return "Subscriber"
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
