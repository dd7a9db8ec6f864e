package payments

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juicejoy/juicejoy-backend/internal/cart"
	"github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/subscriptions"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

type stubOrderCreator struct {
	created []orders.CreateOrderInput
	err     error
}

func (s *stubOrderCreator) CreateOrder(_ context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, input)
	return &orders.OrderDTO{ID: uuid.New(), UserID: input.UserID}, nil
}

type stubSubscriptionCreator struct {
	created []subscriptions.CreateSubscriptionInput
}

func (s *stubSubscriptionCreator) CreateSubscription(_ context.Context, input subscriptions.CreateSubscriptionInput) (*subscriptions.SubscriptionDTO, error) {
	s.created = append(s.created, input)
	return &subscriptions.SubscriptionDTO{ID: uuid.New(), UserID: input.UserID}, nil
}

type stubSnapshotter struct {
	snapshots map[uuid.UUID]cart.ProductSnapshot
}

func (s *stubSnapshotter) SnapshotProduct(_ context.Context, productID uuid.UUID) (cart.ProductSnapshot, error) {
	snapshot, ok := s.snapshots[productID]
	if !ok {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return snapshot, nil
}

func newPaymentsService(t *testing.T, ord *stubOrderCreator, subs *stubSubscriptionCreator, prods *stubSnapshotter) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders:   ord,
		Subs:     subs,
		Products: prods,
		Logger:   logger.New(logger.Options{ServiceName: "payments-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestHandleEventOrderPaidPlacesOrder(t *testing.T) {
	productID := uuid.New()
	ord := &stubOrderCreator{}
	subs := &stubSubscriptionCreator{}
	prods := &stubSnapshotter{snapshots: map[uuid.UUID]cart.ProductSnapshot{
		productID: {ProductID: productID, Name: "Green Machine", UnitPriceCents: 799},
	}}
	svc := newPaymentsService(t, ord, subs, prods)
	userID := uuid.New()

	err := svc.HandleEvent(context.Background(), &Event{
		EventID: "evt-1",
		Type:    EventTypeOrderPaid,
		UserID:  userID,
		Order: &OrderPayload{
			RecipientName:  "Dana",
			Phone:          "+15550100",
			DeliveryMethod: "pickup",
			Lines:          []LinePayload{{ProductID: productID, Quantity: 2}},
		},
	})
	require.NoError(t, err)

	require.Len(t, ord.created, 1)
	placed := ord.created[0]
	assert.Equal(t, userID, placed.UserID)
	assert.Equal(t, enums.PaymentMethodOnline, placed.PaymentMethod)
	assert.Equal(t, enums.DeliveryMethodPickup, placed.DeliveryMethod)
	require.Len(t, placed.Lines, 1)
	assert.Equal(t, "Green Machine", placed.Lines[0].Name)
	assert.Equal(t, 799, placed.Lines[0].UnitPriceCents)
	assert.Equal(t, 2, placed.Lines[0].Quantity)
}

func TestHandleEventSubscriptionPaidStartsSubscription(t *testing.T) {
	ord := &stubOrderCreator{}
	subs := &stubSubscriptionCreator{}
	svc := newPaymentsService(t, ord, subs, &stubSnapshotter{})
	userID := uuid.New()
	planID := uuid.New()
	next := time.Now().UTC().Add(48 * time.Hour)

	err := svc.HandleEvent(context.Background(), &Event{
		EventID: "evt-2",
		Type:    EventTypeSubscriptionPaid,
		UserID:  userID,
		Subscription: &SubscriptionPayload{
			PlanID:           planID,
			NextDeliveryDate: next,
			ShippingAddress:  "12 Orchard Way",
			Items:            []ItemPayload{{ProductID: uuid.New(), Quantity: 1}},
		},
	})
	require.NoError(t, err)

	require.Len(t, subs.created, 1)
	assert.Equal(t, planID, subs.created[0].PlanID)
	assert.Equal(t, userID, subs.created[0].UserID)
	assert.Equal(t, "12 Orchard Way", subs.created[0].ShippingAddress)
}

func TestHandleEventRejectsUnknownType(t *testing.T) {
	svc := newPaymentsService(t, &stubOrderCreator{}, &stubSubscriptionCreator{}, &stubSnapshotter{})

	err := svc.HandleEvent(context.Background(), &Event{EventID: "evt-3", Type: "refund.issued", UserID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestHandleEventOrderPaidUnknownProductFails(t *testing.T) {
	ord := &stubOrderCreator{}
	svc := newPaymentsService(t, ord, &stubSubscriptionCreator{}, &stubSnapshotter{})

	err := svc.HandleEvent(context.Background(), &Event{
		EventID: "evt-4",
		Type:    EventTypeOrderPaid,
		UserID:  uuid.New(),
		Order: &OrderPayload{
			RecipientName:  "Dana",
			Phone:          "+15550100",
			DeliveryMethod: "pickup",
			Lines:          []LinePayload{{ProductID: uuid.New(), Quantity: 1}},
		},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Empty(t, ord.created)
}

func TestHandleEventRequiresPayload(t *testing.T) {
	svc := newPaymentsService(t, &stubOrderCreator{}, &stubSubscriptionCreator{}, &stubSnapshotter{})

	err := svc.HandleEvent(context.Background(), &Event{EventID: "evt-5", Type: EventTypeOrderPaid, UserID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
