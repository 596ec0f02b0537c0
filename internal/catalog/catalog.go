package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/qasimqz1/ecommerce/pkg/slug"

	"github.com/qasimqz1/ecommerce/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

var (
	descriptionPolicy = newDescriptionPolicy()
	textPolicy        = bluemonday.StrictPolicy()
)

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Catalog is the fixed set of products displayed on the storefront page.
type Catalog struct {
	products   []domain.Product
	plainText  []string
	categories []string
}

// Load reads a catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML. Names must be unique since the cart and
// wishlist key on them.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{}
	seen := make(map[string]struct{}, len(file.Products))
	seenID := make(map[string]struct{}, len(file.Products))
	seenCategory := make(map[string]struct{})

	for i, entry := range file.Products {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog product %d: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("catalog product %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		price, err := decimal.NewFromString(strings.TrimSpace(entry.Price))
		if err != nil {
			return nil, fmt.Errorf("catalog product %q: invalid price %q: %w", name, entry.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("catalog product %q: price must not be negative", name)
		}

		descHTML, err := renderDescription(entry.Description)
		if err != nil {
			return nil, fmt.Errorf("catalog product %q: %w", name, err)
		}

		category := strings.TrimSpace(entry.Category)
		if _, ok := seenCategory[category]; !ok && category != "" {
			seenCategory[category] = struct{}{}
			c.categories = append(c.categories, category)
		}

		id := strings.TrimSpace(entry.ID)
		if id == "" {
			id = slug.Generate(name)
		}
		if _, dup := seenID[id]; dup {
			return nil, fmt.Errorf("catalog product %q: duplicate id %q", name, id)
		}
		seenID[id] = struct{}{}

		c.products = append(c.products, domain.Product{
			ID:              id,
			Name:            name,
			Description:     strings.TrimSpace(entry.Description),
			Category:        category,
			Price:           price,
			Image:           entry.Image,
			DescriptionHTML: descHTML,
		})
		c.plainText = append(c.plainText, plainText(descHTML))
	}

	return c, nil
}

func renderDescription(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return strings.TrimSpace(descriptionPolicy.Sanitize(buf.String())), nil
}

// plainText strips markup so search matches what the shopper reads.
func plainText(markup string) string {
	text := html.UnescapeString(textPolicy.Sanitize(markup))
	return strings.Join(strings.Fields(text), " ")
}

// Products returns the catalog in display order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Categories returns the filter tokens: "all" followed by each category in
// catalog order.
func (c *Catalog) Categories() []string {
	return append([]string{domain.CategoryAll}, c.categories...)
}

// Find looks a product up by name.
func (c *Catalog) Find(name string) (domain.Product, bool) {
	for _, p := range c.products {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Product{}, false
}

// ByID looks a product up by its id.
func (c *Catalog) ByID(id string) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
