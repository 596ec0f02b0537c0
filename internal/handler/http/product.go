package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/qasimqz1/ecommerce/pkg/errors"
	"github.com/qasimqz1/ecommerce/pkg/httputil"
	"github.com/qasimqz1/ecommerce/pkg/pagination"

	"github.com/qasimqz1/ecommerce/internal/catalog"
	"github.com/qasimqz1/ecommerce/internal/domain"
)

// ProductHandler serves the read-only catalog.
type ProductHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler.
func NewProductHandler(cat *catalog.Catalog, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: cat, logger: logger}
}

// ProductList is one page of the catalog with its filter buttons.
type ProductList struct {
	pagination.Result[domain.Product]
	Categories []string `json:"categories"`
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.Slice(h.catalog.Products(), pagination.FromRequest(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ProductList{
		Result:     page,
		Categories: h.catalog.Categories(),
	}})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.catalog.ByID(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p})
}
