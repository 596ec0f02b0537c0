package domain

import "github.com/shopspring/decimal"

// LineItem is a single product line in the cart. Name is the unique key.
type LineItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price times quantity, unrounded.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the page-lifetime shopping cart. It is not safe for concurrent use;
// callers serialise access per session.
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []LineItem{}}
}

// FindItemIndex returns the index of the line item with the given name, or -1.
func (c *Cart) FindItemIndex(name string) int {
	for i := range c.Items {
		if c.Items[i].Name == name {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line or appends a new one with
// quantity 1. Name and price are accepted as given.
func (c *Cart) Add(name string, price decimal.Decimal, image string) LineItem {
	if i := c.FindItemIndex(name); i >= 0 {
		c.Items[i].Quantity++
		return c.Items[i]
	}
	item := LineItem{Name: name, Price: price, Image: image, Quantity: 1}
	c.Items = append(c.Items, item)
	return item
}

// Remove drops every line with the given name and reports whether anything was removed.
func (c *Cart) Remove(name string) bool {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.Name != name {
			kept = append(kept, item)
		}
	}
	removed := len(kept) != len(c.Items)
	c.Items = kept
	return removed
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Count returns the sum of quantities over all lines.
func (c *Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the sum of price times quantity over all lines, unrounded.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Snapshot returns a copy of the lines that is safe to hand to renderers.
func (c *Cart) Snapshot() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// Receipt summarises a completed checkout.
type Receipt struct {
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Items     []LineItem      `json:"items"`
}

// NewReceipt captures count and total of the cart as it stands.
func NewReceipt(c *Cart) Receipt {
	return Receipt{
		ItemCount: c.Count(),
		Total:     c.Total(),
		Items:     c.Snapshot(),
	}
}
