package display

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

// Renderer is the UI callback invoked after every state mutation. The core
// never builds markup itself.
type Renderer interface {
	RenderCart(ctx context.Context, v CartView) error
	RenderWishlist(ctx context.Context, v WishlistView) error
}

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates is the parsed fragment set shared by every HTMLRenderer.
type Templates struct {
	t *template.Template
}

// ParseTemplates parses the embedded fragment templates.
func ParseTemplates() (*Templates, error) {
	funcMap := template.FuncMap{
		"currency": func(amount string) string { return "£" + amount },
	}
	t, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Execute renders the named fragment.
func (ts *Templates) Execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := ts.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Frame is the latest rendered state of one page.
type Frame struct {
	Cart         CartView     `json:"cart"`
	Wishlist     WishlistView `json:"wishlist"`
	CartHTML     string       `json:"cart_html"`
	WishlistHTML string       `json:"wishlist_html"`
	// Renders counts calls, so clients can tell whether anything changed.
	Renders int `json:"renders"`
}

// HTMLRenderer renders fragments for a single page and keeps the latest Frame.
type HTMLRenderer struct {
	templates *Templates

	mu    sync.RWMutex
	frame Frame
}

// NewHTMLRenderer creates a renderer for one page.
func NewHTMLRenderer(templates *Templates) *HTMLRenderer {
	return &HTMLRenderer{templates: templates}
}

// RenderCart renders the cart list fragment.
func (r *HTMLRenderer) RenderCart(_ context.Context, v CartView) error {
	out, err := r.templates.Execute("cart", v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Cart = v
	r.frame.CartHTML = out
	r.frame.Renders++
	return nil
}

// RenderWishlist renders the wishlist list fragment.
func (r *HTMLRenderer) RenderWishlist(_ context.Context, v WishlistView) error {
	out, err := r.templates.Execute("wishlist", v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Wishlist = v
	r.frame.WishlistHTML = out
	r.frame.Renders++
	return nil
}

// Frame returns a copy of the latest rendered state.
func (r *HTMLRenderer) Frame() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}
