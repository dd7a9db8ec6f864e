package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

// Service exposes order placement, retrieval, and the owner-side status
// progression.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
}

// Notifier announces committed status changes to live watchers.
type Notifier interface {
	NotifyOrderStatus(ctx context.Context, event realtime.OrderEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	dbClient txRunner
	notifier Notifier
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo     *Repository
	DBClient txRunner
	Notifier Notifier
	Logger   *logger.Logger
}

// NewService constructs an orders service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

// CreateOrder snapshots the lines into a pending order. The order row and all
// of its lines commit in one transaction.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(input.Lines))
	total := 0
	for _, line := range input.Lines {
		lineTotal := line.UnitPriceCents * line.Quantity
		total += lineTotal
		productID := line.ProductID
		lines = append(lines, models.OrderLine{
			ProductID:      &productID,
			NameAtPurchase: line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			TotalCents:     lineTotal,
		})
	}

	order := &models.Order{
		UserID:         input.UserID,
		RecipientName:  strings.TrimSpace(input.RecipientName),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          strings.TrimSpace(input.Email),
		Address:        input.Address,
		DeliveryMethod: input.DeliveryMethod,
		PaymentMethod:  input.PaymentMethod,
		TotalCents:     total,
		Status:         enums.OrderStatusPending,
		Lines:          lines,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return toDTO(order), nil
}

// GetOrder loads one order. Customers can only read their own orders.
func (s *service) GetOrder(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actorRole != enums.UserRoleBusinessOwner && order.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return toDTO(order), nil
}

// ListForUser returns the user's order history, newest first. A user with no
// orders gets an empty list.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return toDTOs(rows), nil
}

// ListAll returns every order for the business dashboard, newest first.
func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return toDTOs(rows), nil
}

// SetStatus advances the order along its one-way lifecycle. Setting the
// current status again is a silent no-op; moving backwards is rejected.
// Watchers are notified only after the change commits.
func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == next {
		return toDTO(order), nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	changedAt := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, orderID, next, changedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	order.Status = next
	order.StatusChangedAt = &changedAt

	dto := toDTO(order)
	if err := s.notifier.NotifyOrderStatus(ctx, toEvent(dto, changedAt)); err != nil {
		// The status change is durable; a dropped notification only delays
		// watchers until their next reconnect.
		s.logg.Error(s.logg.WithOrderID(ctx, orderID.String()), "order status notification failed", err)
	}

	return dto, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if strings.TrimSpace(line.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "line name cannot be empty")
		}
	}
	if strings.TrimSpace(input.RecipientName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient name is required")
	}
	if strings.TrimSpace(input.Phone) == "" && strings.TrimSpace(input.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a contact phone or email is required")
	}
	if !input.DeliveryMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery method")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.DeliveryMethod == enums.DeliveryMethodDelivery {
		if input.Address == nil || strings.TrimSpace(*input.Address) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require an address")
		}
	}
	return nil
}
