package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juicejoy/juicejoy-backend/internal/cart"
	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
)

// Service exposes the juice menu plus the owner-side product management
// operations. Role checks happen at the routing layer; the service enforces
// domain rules only.
type Service interface {
	ListMenu(ctx context.Context, category *enums.ProductCategory) ([]ProductDTO, error)
	ListAll(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SnapshotProduct(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMenu(ctx context.Context, category *enums.ProductCategory) ([]ProductDTO, error) {
	if category != nil && !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	rows, err := s.repo.ListActive(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toDTOs(rows), nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toDTO(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input.Name, input.PriceCents, input.Category); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Ingredients: input.Ingredients,
		Benefits:    input.Benefits,
		IsActive:    input.IsActive,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return toDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = trimmed
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
		}
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Ingredients != nil {
		product.Ingredients = *input.Ingredients
	}
	if input.Benefits != nil {
		product.Benefits = *input.Benefits
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return toDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// SnapshotProduct freezes the fields a cart line needs. Inactive products
// cannot be added to a cart.
func (s *service) SnapshotProduct(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return cart.ProductSnapshot{}, err
	}
	if !product.IsActive {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return cart.ProductSnapshot{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
	}, nil
}

func (s *service) findProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func validateProductInput(name string, priceCents int, category enums.ProductCategory) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if priceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	return nil
}
