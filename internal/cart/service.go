package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/config"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	"github.com/juicejoy/juicejoy-backend/pkg/errors"
)

// ProductFinder resolves a purchasable product into the snapshot a cart line
// carries. Implemented by the catalog service.
type ProductFinder interface {
	SnapshotProduct(ctx context.Context, productID uuid.UUID) (ProductSnapshot, error)
}

// Quote is the display-time checkout breakdown. Tax and delivery fee are
// computed here and shown to the customer; the persisted order total stays
// the product subtotal.
type Quote struct {
	SubtotalCents    int `json:"subtotal_cents"`
	TaxCents         int `json:"tax_cents"`
	DeliveryFeeCents int `json:"delivery_fee_cents"`
	TotalCents       int `json:"total_cents"`
}

type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (Cart, error)
	AddProduct(ctx context.Context, userID, productID uuid.UUID) (Cart, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (Cart, error)
	RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	QuoteCheckout(ctx context.Context, userID uuid.UUID, method enums.DeliveryMethod) (Quote, error)
}

type service struct {
	store    *Store
	products ProductFinder
	checkout config.CheckoutConfig
}

// NewService constructs the cart service.
func NewService(store *Store, products ProductFinder, checkout config.CheckoutConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{store: store, products: products, checkout: checkout}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (Cart, error) {
	return s.store.Load(ctx, userID)
}

func (s *service) AddProduct(ctx context.Context, userID, productID uuid.UUID) (Cart, error) {
	snapshot, err := s.products.SnapshotProduct(ctx, productID)
	if err != nil {
		return Cart{}, err
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	c.AddItem(snapshot)
	if err := s.store.Save(ctx, userID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	c.SetQuantity(productID, quantity)
	if err := s.store.Save(ctx, userID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *service) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	c.RemoveItem(productID)
	if err := s.store.Save(ctx, userID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Clear(ctx, userID)
}

func (s *service) QuoteCheckout(ctx context.Context, userID uuid.UUID, method enums.DeliveryMethod) (Quote, error) {
	if !method.IsValid() {
		return Quote{}, errors.New(errors.CodeValidation, "unknown delivery method")
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	if c.IsEmpty() {
		return Quote{}, errors.New(errors.CodeValidation, "cart is empty")
	}

	subtotal := c.SubtotalCents()
	tax := subtotal * s.checkout.TaxRateBasisPoints / 10000
	fee := 0
	if method == enums.DeliveryMethodDelivery {
		fee = s.checkout.DeliveryFeeCents
	}

	return Quote{
		SubtotalCents:    subtotal,
		TaxCents:         tax,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + tax + fee,
	}, nil
}
