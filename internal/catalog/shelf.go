package catalog

import (
	"strings"

	"github.com/qasimqz1/ecommerce/internal/domain"
)

// Tile is one product card on the page and its visibility.
type Tile struct {
	Product domain.Product `json:"product"`
	Visible bool           `json:"visible"`
	// Entering marks tiles that play the entrance transition after a filter.
	Entering bool `json:"entering"`
}

// Shelf is the per-session view over a catalog. Filter and Search each
// recompute visibility on their own; whichever ran last decides.
type Shelf struct {
	tiles  []Tile
	search []string
	filter string
}

// NewShelf shows every product with the "all" filter selected.
func NewShelf(c *Catalog) *Shelf {
	s := &Shelf{
		tiles:  make([]Tile, len(c.products)),
		search: make([]string, len(c.products)),
		filter: domain.CategoryAll,
	}
	for i, p := range c.products {
		s.tiles[i] = Tile{Product: p, Visible: true}
		s.search[i] = strings.ToLower(p.Name + "\n" + c.plainText[i])
	}
	return s
}

// Filter selects a category token and shows the products that match it.
func (s *Shelf) Filter(category string) []Tile {
	s.filter = category
	for i := range s.tiles {
		visible := s.tiles[i].Product.InCategory(category)
		s.tiles[i].Visible = visible
		s.tiles[i].Entering = visible
	}
	return s.Tiles()
}

// Search shows products whose name or description contains term,
// case-insensitively. An empty term shows everything.
func (s *Shelf) Search(term string) []Tile {
	needle := strings.ToLower(term)
	for i := range s.tiles {
		s.tiles[i].Visible = strings.Contains(s.search[i], needle)
		s.tiles[i].Entering = false
	}
	return s.Tiles()
}

// CurrentFilter returns the last selected category token.
func (s *Shelf) CurrentFilter() string {
	return s.filter
}

// Tiles returns a copy of every tile in catalog order.
func (s *Shelf) Tiles() []Tile {
	out := make([]Tile, len(s.tiles))
	copy(out, s.tiles)
	return out
}

// Products returns every product on the shelf, visible or not.
func (s *Shelf) Products() []domain.Product {
	out := make([]domain.Product, len(s.tiles))
	for i, t := range s.tiles {
		out[i] = t.Product
	}
	return out
}
