package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/internal/cart"
	"github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/subscriptions"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

// Service turns confirmed payment callbacks into orders and subscriptions.
type Service interface {
	HandleEvent(ctx context.Context, event *Event) error
}

type orderCreator interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
}

type subscriptionCreator interface {
	CreateSubscription(ctx context.Context, input subscriptions.CreateSubscriptionInput) (*subscriptions.SubscriptionDTO, error)
}

type productSnapshotter interface {
	SnapshotProduct(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error)
}

type service struct {
	orders   orderCreator
	subs     subscriptionCreator
	products productSnapshotter
	logg     *logger.Logger
}

// ServiceParams wires the handler dependencies.
type ServiceParams struct {
	Orders   orderCreator
	Subs     subscriptionCreator
	Products productSnapshotter
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if params.Subs == nil {
		return nil, fmt.Errorf("subscription creator required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product snapshotter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		orders:   params.Orders,
		subs:     params.Subs,
		products: params.Products,
		logg:     params.Logger,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event payload is required")
	}
	if event.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event user id is required")
	}

	switch strings.TrimSpace(event.Type) {
	case EventTypeOrderPaid:
		return s.handleOrderPaid(ctx, event)
	case EventTypeSubscriptionPaid:
		return s.handleSubscriptionPaid(ctx, event)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown event type").WithDetails(map[string]any{"type": event.Type})
	}
}

func (s *service) handleOrderPaid(ctx context.Context, event *Event) error {
	payload := event.Order
	if payload == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order payload is required")
	}

	method, err := enums.ParseDeliveryMethod(payload.DeliveryMethod)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
	}

	lines := make([]orders.LineInput, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		snapshot, err := s.products.SnapshotProduct(ctx, line.ProductID)
		if err != nil {
			return err
		}
		lines = append(lines, orders.LineInput{
			ProductID:      snapshot.ProductID,
			Name:           snapshot.Name,
			UnitPriceCents: snapshot.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	order, err := s.orders.CreateOrder(ctx, orders.CreateOrderInput{
		UserID:         event.UserID,
		RecipientName:  payload.RecipientName,
		Phone:          payload.Phone,
		Email:          payload.Email,
		Address:        payload.Address,
		DeliveryMethod: method,
		PaymentMethod:  enums.PaymentMethodOnline,
		Lines:          lines,
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "paid order placed")
	return nil
}

func (s *service) handleSubscriptionPaid(ctx context.Context, event *Event) error {
	payload := event.Subscription
	if payload == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription payload is required")
	}

	items := make([]subscriptions.ItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, subscriptions.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	sub, err := s.subs.CreateSubscription(ctx, subscriptions.CreateSubscriptionInput{
		UserID:           event.UserID,
		PlanID:           payload.PlanID,
		NextDeliveryDate: payload.NextDeliveryDate,
		ShippingAddress:  payload.ShippingAddress,
		Items:            items,
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "subscription_id", sub.ID.String()), "paid subscription started")
	return nil
}
