package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	PriceCents  int
	Category    enums.ProductCategory
	ImageURL    string
	Ingredients []string
	Benefits    []string
	IsActive    bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int
	Category    *enums.ProductCategory
	ImageURL    *string
	Ingredients *[]string
	Benefits    *[]string
	IsActive    *bool
}

// ProductDTO is the API projection of a product.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	PriceCents  int                   `json:"price_cents"`
	Category    enums.ProductCategory `json:"category"`
	ImageURL    string                `json:"image_url"`
	Ingredients []string              `json:"ingredients"`
	Benefits    []string              `json:"benefits"`
	IsActive    bool                  `json:"is_active"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func toDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Category:    product.Category,
		ImageURL:    product.ImageURL,
		Ingredients: append([]string{}, product.Ingredients...),
		Benefits:    append([]string{}, product.Benefits...),
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *toDTO(&products[i]))
	}
	return out
}
