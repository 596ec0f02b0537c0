package domain

import "github.com/shopspring/decimal"

// CategoryAll is the filter token that matches every product.
const CategoryAll = "all"

// Product is a catalog tile shown on the storefront page.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	// DescriptionHTML is the sanitised markup rendered from Description.
	DescriptionHTML string `json:"description_html,omitempty"`
}

// InCategory reports whether the product passes the given category filter.
func (p Product) InCategory(category string) bool {
	return category == CategoryAll || p.Category == category
}
