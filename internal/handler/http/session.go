package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	apperrors "github.com/qasimqz1/ecommerce/pkg/errors"
	"github.com/qasimqz1/ecommerce/pkg/httputil"
	"github.com/qasimqz1/ecommerce/pkg/middleware"

	"github.com/qasimqz1/ecommerce/internal/domain"
	"github.com/qasimqz1/ecommerce/internal/storefront"
)

// Panel names accepted by TogglePanel.
const (
	PanelCart     = "cart"
	PanelWishlist = "wishlist"
)

// SessionHandler serves the page session endpoints.
type SessionHandler struct {
	manager *storefront.Manager
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(manager *storefront.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, logger: logger}
}

// --- Request DTOs ---

// ItemRequest names a product for the cart or wishlist. Price and image are
// what the product tile carried; a missing price is filled in from the
// catalog entry of the same name.
type ItemRequest struct {
	Name  string           `json:"name" validate:"required,max=200"`
	Price *decimal.Decimal `json:"price"`
	Image string           `json:"image" validate:"max=500"`
}

// FilterRequest selects a category button.
type FilterRequest struct {
	Category string `json:"category" validate:"required,max=100"`
}

// SearchRequest carries the search box contents; empty shows everything.
type SearchRequest struct {
	Term string `json:"term" validate:"max=200"`
}

// --- Response DTOs ---

// CheckoutResponse is returned by a successful checkout.
type CheckoutResponse struct {
	Receipt domain.Receipt  `json:"receipt"`
	Summary string          `json:"summary"`
	View    storefront.View `json:"view"`
}

// WishlistToggleResponse reports which way a toggle went.
type WishlistToggleResponse struct {
	Added bool            `json:"added"`
	View  storefront.View `json:"view"`
}

// --- Handlers ---

// Open handles POST /api/v1/sessions
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Open(r.Context(), middleware.ProfileID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: h.view(sess)})
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// Close handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.manager.Close(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/v1/sessions/{id}/cart/items
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	sess.AddToCart(r.Context(), req.Name, *req.Price, req.Image)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// RemoveItem handles DELETE /api/v1/sessions/{id}/cart/items/{name}
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	name, ok := httputil.PathParam(w, r, "name")
	if !ok {
		return
	}

	sess.RemoveFromCart(r.Context(), name)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// Checkout handles POST /api/v1/sessions/{id}/checkout
func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	receipt, err := sess.Checkout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CheckoutResponse{
		Receipt: receipt,
		Summary: storefront.CheckoutSummary(receipt),
		View:    h.view(sess),
	}})
}

// ToggleWishlist handles POST /api/v1/sessions/{id}/wishlist/toggle
func (h *SessionHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	added, _ := sess.ToggleWishlistItem(r.Context(), req.Name, *req.Price, req.Image)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: WishlistToggleResponse{
		Added: added,
		View:  h.view(sess),
	}})
}

// RemoveWishlistItem handles DELETE /api/v1/sessions/{id}/wishlist/items/{name}
func (h *SessionHandler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	name, ok := httputil.PathParam(w, r, "name")
	if !ok {
		return
	}

	sess.RemoveFromWishlist(r.Context(), name)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// ToggleTheme handles POST /api/v1/sessions/{id}/theme/toggle
func (h *SessionHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.ToggleTheme(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// TogglePanel handles POST /api/v1/sessions/{id}/panels/{panel}/toggle
func (h *SessionHandler) TogglePanel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var panels storefront.Panels
	switch panel := chi.URLParam(r, "panel"); panel {
	case PanelCart:
		panels = sess.ToggleCartPanel()
	case PanelWishlist:
		panels = sess.ToggleWishlistPanel()
	default:
		httputil.WriteError(w, r, apperrors.NotFound("panel", panel), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: panels})
}

// Filter handles POST /api/v1/sessions/{id}/filter
func (h *SessionHandler) Filter(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FilterRequest
	if !httputil.DecodeAndValidate(w, r, &req, h.logger) {
		return
	}

	sess.FilterProducts(req.Category)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// Search handles POST /api/v1/sessions/{id}/search
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if !httputil.DecodeAndValidate(w, r, &req, h.logger) {
		return
	}

	sess.SearchProducts(req.Term)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(sess)})
}

// Notifications handles GET /api/v1/sessions/{id}/notifications
func (h *SessionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Notifications()})
}

// Fragment handles GET /api/v1/sessions/{id}/fragments/{name}
func (h *SessionHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	frame, kept := sess.Frame()
	if !kept {
		httputil.WriteError(w, r, apperrors.NotFound("fragment", name), h.logger)
		return
	}

	switch name {
	case PanelCart:
		httputil.WriteHTML(w, http.StatusOK, frame.CartHTML)
	case PanelWishlist:
		httputil.WriteHTML(w, http.StatusOK, frame.WishlistHTML)
	default:
		httputil.WriteError(w, r, apperrors.NotFound("fragment", name), h.logger)
	}
}

// session resolves {id} to a session owned by the calling profile. Sessions
// of other profiles are reported as missing.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*storefront.Session, bool) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return nil, false
	}

	sess, err := h.manager.Get(id)
	if err == nil && sess.ProfileID != middleware.ProfileID(r) {
		err = apperrors.NotFound("session", id)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) decodeItem(w http.ResponseWriter, r *http.Request) (ItemRequest, bool) {
	var req ItemRequest
	if !httputil.DecodeAndValidate(w, r, &req, h.logger) {
		return req, false
	}

	if req.Price == nil {
		p, ok := h.manager.Catalog().Find(req.Name)
		if !ok {
			httputil.WriteError(w, r,
				apperrors.InvalidInput("price is required for products outside the catalog"), h.logger)
			return req, false
		}
		req.Price = &p.Price
		if req.Image == "" {
			req.Image = p.Image
		}
	}
	return req, true
}

func (h *SessionHandler) view(sess *storefront.Session) storefront.View {
	return sess.View(h.manager.Catalog().Categories())
}
