package controllers

import (
	"net/http"
	"strings"

	"github.com/juicejoy/juicejoy-backend/api/responses"
	"github.com/juicejoy/juicejoy-backend/api/validators"
	catalogsvc "github.com/juicejoy/juicejoy-backend/internal/catalog"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

// ListProducts returns the public menu of active products, optionally
// filtered by category.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var category *enums.ProductCategory
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			parsed, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			category = &parsed
		}

		products, err := svc.ListMenu(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns a single product by id.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// BusinessListProducts returns every product, active or not.
func BusinessListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// BusinessCreateProduct adds a product to the catalog.
func BusinessCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// BusinessUpdateProduct applies a partial update to a product.
func BusinessUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// BusinessDeleteProduct removes a product from the catalog.
func BusinessDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=160"`
	Description string   `json:"description"`
	PriceCents  int      `json:"price_cents" validate:"required,min=1"`
	Category    string   `json:"category" validate:"required"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Ingredients []string `json:"ingredients"`
	Benefits    []string `json:"benefits"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (r createProductRequest) toCreateInput() (catalogsvc.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return catalogsvc.CreateProductInput{
		Name:        validators.SanitizeString(r.Name, 160),
		Description: validators.SanitizeString(r.Description, 2000),
		PriceCents:  r.PriceCents,
		Category:    category,
		ImageURL:    strings.TrimSpace(r.ImageURL),
		Ingredients: r.Ingredients,
		Benefits:    r.Benefits,
		IsActive:    isActive,
	}, nil
}

type updateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	Description *string   `json:"description,omitempty"`
	PriceCents  *int      `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	Category    *string   `json:"category,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Ingredients *[]string `json:"ingredients,omitempty"`
	Benefits    *[]string `json:"benefits,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Ingredients: r.Ingredients,
		Benefits:    r.Benefits,
		IsActive:    r.IsActive,
	}

	if r.Name != nil {
		trimmed := validators.SanitizeString(*r.Name, 160)
		input.Name = &trimmed
	}
	if r.ImageURL != nil {
		trimmed := strings.TrimSpace(*r.ImageURL)
		input.ImageURL = &trimmed
	}
	if r.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	return input, nil
}
