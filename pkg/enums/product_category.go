package enums

import "fmt"

// ProductCategory tags a juice in the menu grid.
type ProductCategory string

const (
	ProductCategoryGreen    ProductCategory = "green"
	ProductCategoryFruit    ProductCategory = "fruit"
	ProductCategoryBerry    ProductCategory = "berry"
	ProductCategoryCitrus   ProductCategory = "citrus"
	ProductCategoryTropical ProductCategory = "tropical"
	ProductCategoryVeggie   ProductCategory = "veggie"
	ProductCategoryProtein  ProductCategory = "protein"
)

var validProductCategories = []ProductCategory{
	ProductCategoryGreen,
	ProductCategoryFruit,
	ProductCategoryBerry,
	ProductCategoryCitrus,
	ProductCategoryTropical,
	ProductCategoryVeggie,
	ProductCategoryProtein,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
