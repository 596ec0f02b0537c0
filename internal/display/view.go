package display

import (
	"github.com/shopspring/decimal"

	"github.com/qasimqz1/ecommerce/internal/domain"
)

// Wishlist toggle glyphs shown on product tiles.
const (
	GlyphWishlisted    = "❤️"
	GlyphNotWishlisted = "🤍"
)

// EmptyCartMessage replaces the item list when the cart has no lines.
const EmptyCartMessage = "Your cart is empty"

// Money formats an amount to two decimal places for display. Stored amounts
// are never rounded.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// CartLine is one rendered cart row.
type CartLine struct {
	Name      string `json:"name"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// CartView is everything the UI shows for the cart: header badge, sidebar
// total and item list.
type CartView struct {
	Count int        `json:"count"`
	Total string     `json:"total"`
	Lines []CartLine `json:"lines"`
	Empty bool       `json:"empty"`
}

// CartSummary derives the cart display from scratch.
func CartSummary(c *domain.Cart) CartView {
	v := CartView{
		Count: c.Count(),
		Total: Money(c.Total()),
		Lines: make([]CartLine, 0, len(c.Items)),
		Empty: c.Empty(),
	}
	for _, item := range c.Items {
		v.Lines = append(v.Lines, CartLine{
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			UnitPrice: Money(item.Price),
			LineTotal: Money(item.Subtotal()),
		})
	}
	return v
}

// WishlistLine is one rendered wishlist row. Price is the display string;
// Amount is the stored price, unrounded, for re-adding to the cart.
type WishlistLine struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

// ToggleState is the wishlist affordance on a product tile.
type ToggleState struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Glyph  string `json:"glyph"`
}

// WishlistView is the header badge, the sidebar list and the state of every
// product tile's wishlist toggle.
type WishlistView struct {
	HeaderCount  int            `json:"header_count"`
	SidebarCount int            `json:"sidebar_count"`
	Lines        []WishlistLine `json:"lines"`
	Toggles      []ToggleState  `json:"toggles"`
}

// WishlistSummary derives the wishlist display. Every product tile is
// re-scanned, not only the one that changed.
func WishlistSummary(w *domain.Wishlist, products []domain.Product) WishlistView {
	v := WishlistView{
		HeaderCount:  w.Len(),
		SidebarCount: w.Len(),
		Lines:        make([]WishlistLine, 0, w.Len()),
		Toggles:      make([]ToggleState, 0, len(products)),
	}
	for _, e := range w.Entries {
		v.Lines = append(v.Lines, WishlistLine{
			Name:   e.Name,
			Image:  e.Image,
			Price:  Money(e.Price),
			Amount: e.Price.String(),
		})
	}

	names := w.Names()
	for _, p := range products {
		_, active := names[p.Name]
		glyph := GlyphNotWishlisted
		if active {
			glyph = GlyphWishlisted
		}
		v.Toggles = append(v.Toggles, ToggleState{Name: p.Name, Active: active, Glyph: glyph})
	}
	return v
}
