package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/qasimqz1/ecommerce/pkg/errors"
	"github.com/qasimqz1/ecommerce/pkg/tracing"

	"github.com/qasimqz1/ecommerce/internal/catalog"
	"github.com/qasimqz1/ecommerce/internal/display"
	"github.com/qasimqz1/ecommerce/internal/domain"
	"github.com/qasimqz1/ecommerce/internal/event"
	"github.com/qasimqz1/ecommerce/internal/notify"
	"github.com/qasimqz1/ecommerce/internal/store"
)

var tracer = tracing.Tracer("github.com/qasimqz1/ecommerce/internal/storefront")

// EmptyCartMessage is the warning shown when checking out an empty cart.
const EmptyCartMessage = "Your cart is empty!"

// CheckoutSummary is the confirmation text for a completed checkout.
func CheckoutSummary(r domain.Receipt) string {
	return fmt.Sprintf("Checkout Summary:\nItems: %d\nTotal: £%s\n\nThank you for your purchase!",
		r.ItemCount, display.Money(r.Total))
}

// Panels tracks which sidebars are open.
type Panels struct {
	CartOpen     bool `json:"cart_open"`
	WishlistOpen bool `json:"wishlist_open"`
}

// Session is the state of one page load. Cart, filter and panels start fresh;
// wishlist and theme are hydrated from the profile's storage. All methods
// serialise on the session mutex, so each mutation completes, persists and
// renders before the next one starts.
type Session struct {
	ID        string
	ProfileID string
	OpenedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time

	cart     *domain.Cart
	wishlist *domain.Wishlist
	theme    domain.Theme
	shelf    *catalog.Shelf
	panels   Panels

	feed     *notify.Feed
	renderer display.Renderer
	store    store.Store
	events   event.Publisher
	logger   *slog.Logger
}

func (s *Session) ref() event.Ref {
	return event.Ref{SessionID: s.ID, ProfileID: s.ProfileID}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// hydrate loads theme and wishlist. Missing, unreadable or corrupt values
// fall back to defaults without surfacing an error.
func (s *Session) hydrate(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "storefront.hydrate",
		trace.WithAttributes(attribute.String("storefront.profile_id", s.ProfileID)))
	defer span.End()

	s.theme = domain.ThemeLight
	if raw, ok := s.read(ctx, store.KeyTheme); ok {
		s.theme = domain.ParseTheme(raw)
	}

	s.wishlist = domain.NewWishlist()
	if raw, ok := s.read(ctx, store.KeyWishlist); ok {
		w, err := domain.UnmarshalWishlist(raw)
		if err != nil {
			storageFailures.WithLabelValues("decode", store.KeyWishlist).Inc()
			s.logger.WarnContext(ctx, "stored wishlist is corrupt, starting empty",
				slog.String("profile_id", s.ProfileID),
				slog.String("error", err.Error()),
			)
		} else {
			s.wishlist = w
		}
	}
	span.SetAttributes(
		attribute.String("storefront.theme", string(s.theme)),
		attribute.Int("storefront.wishlist_count", s.wishlist.Len()),
	)
}

func (s *Session) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			storageFailures.WithLabelValues("get", key).Inc()
			s.logger.WarnContext(ctx, "storage read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}
	return raw, true
}

func (s *Session) write(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		storageFailures.WithLabelValues("set", key).Inc()
		s.logger.WarnContext(ctx, "storage write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Session) renderCart(ctx context.Context) display.CartView {
	v := display.CartSummary(s.cart)
	if err := s.renderer.RenderCart(ctx, v); err != nil {
		s.logger.ErrorContext(ctx, "cart render failed", slog.String("error", err.Error()))
	}
	return v
}

func (s *Session) renderWishlist(ctx context.Context) display.WishlistView {
	v := display.WishlistSummary(s.wishlist, s.shelf.Products())
	if err := s.renderer.RenderWishlist(ctx, v); err != nil {
		s.logger.ErrorContext(ctx, "wishlist render failed", slog.String("error", err.Error()))
	}
	return v
}

func (s *Session) publishCart(ctx context.Context) {
	if err := s.events.PublishCartUpdated(ctx, s.ref(), s.cart); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.updated event", slog.String("error", err.Error()))
	}
}

// saveWishlist overwrites the stored wishlist with the full collection.
func (s *Session) saveWishlist(ctx context.Context) {
	raw, err := s.wishlist.MarshalEntries()
	if err != nil {
		s.logger.ErrorContext(ctx, "wishlist encode failed", slog.String("error", err.Error()))
		return
	}
	s.write(ctx, store.KeyWishlist, raw)

	if err := s.events.PublishWishlistUpdated(ctx, s.ref(), s.wishlist); err != nil {
		s.logger.WarnContext(ctx, "failed to publish wishlist.updated event", slog.String("error", err.Error()))
	}
}

// AddToCart adds one unit of the named product. Name and price are taken as
// given.
func (s *Session) AddToCart(ctx context.Context, name string, price decimal.Decimal, image string) display.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cart.Add(name, price, image)
	v := s.renderCart(ctx)
	s.feed.Emit(notify.KindSuccess, fmt.Sprintf("%s added to cart!", name), notify.CartAddedTTL)
	cartAdditions.Inc()
	s.publishCart(ctx)

	s.logger.DebugContext(ctx, "item added to cart",
		slog.String("name", name),
		slog.Int("quantity", item.Quantity),
	)
	return v
}

// RemoveFromCart drops the named line. Absent names are a no-op that still
// re-renders.
func (s *Session) RemoveFromCart(ctx context.Context, name string) display.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.cart.Remove(name)
	v := s.renderCart(ctx)
	if removed {
		s.publishCart(ctx)
	}
	return v
}

// Checkout summarises and clears the cart. An empty cart is refused with a
// precondition error and nothing changes.
func (s *Session) Checkout(ctx context.Context) (domain.Receipt, error) {
	ctx, span := tracer.Start(ctx, "storefront.Checkout",
		trace.WithAttributes(attribute.String("storefront.session_id", s.ID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Empty() {
		span.SetAttributes(attribute.Bool("storefront.cart_empty", true))
		checkouts.WithLabelValues("empty").Inc()
		s.feed.Error(EmptyCartMessage)
		return domain.Receipt{}, apperrors.PreconditionFailed(EmptyCartMessage)
	}

	receipt := domain.NewReceipt(s.cart)
	span.SetAttributes(
		attribute.Int("storefront.item_count", receipt.ItemCount),
		attribute.String("storefront.total", receipt.Total.String()),
	)
	s.cart.Clear()
	s.renderCart(ctx)
	s.panels.CartOpen = false
	s.feed.Success(CheckoutSummary(receipt))
	checkouts.WithLabelValues("completed").Inc()

	if err := s.events.PublishCartCheckedOut(ctx, s.ref(), receipt); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.checked_out event", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.Int("item_count", receipt.ItemCount),
		slog.String("total", receipt.Total.String()),
	)
	return receipt, nil
}

// ToggleWishlistItem removes the named entry if present, otherwise adds it.
// It reports whether the entry was added.
func (s *Session) ToggleWishlistItem(ctx context.Context, name string, price decimal.Decimal, image string) (bool, display.WishlistView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.wishlist.Toggle(name, price, image)
	if added {
		wishlistToggles.WithLabelValues("added").Inc()
		s.feed.Success(fmt.Sprintf("%s added to wishlist", name))
	} else {
		wishlistToggles.WithLabelValues("removed").Inc()
		s.feed.Info(fmt.Sprintf("%s removed from wishlist", name))
	}

	v := s.renderWishlist(ctx)
	s.saveWishlist(ctx)
	return added, v
}

// RemoveFromWishlist drops the named entry. The stored collection is
// rewritten and the notice shown even when the name was absent.
func (s *Session) RemoveFromWishlist(ctx context.Context, name string) display.WishlistView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wishlist.Remove(name) {
		wishlistToggles.WithLabelValues("removed").Inc()
	}
	v := s.renderWishlist(ctx)
	s.saveWishlist(ctx)
	s.feed.Info(fmt.Sprintf("%s removed from wishlist", name))
	return v
}

// FilterProducts shows the products in category; "all" shows everything.
func (s *Session) FilterProducts(category string) []catalog.Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shelf.Filter(category)
}

// SearchProducts shows the products whose name or description contains term.
// It replaces whatever the last filter showed.
func (s *Session) SearchProducts(term string) []catalog.Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shelf.Search(term)
}

// ToggleTheme flips the colour scheme and persists it.
func (s *Session) ToggleTheme(ctx context.Context) domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = s.theme.Toggle()
	s.write(ctx, store.KeyTheme, string(s.theme))
	return s.theme
}

// ToggleCartPanel opens or closes the cart sidebar.
func (s *Session) ToggleCartPanel() Panels {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels.CartOpen = !s.panels.CartOpen
	return s.panels
}

// ToggleWishlistPanel opens or closes the wishlist sidebar.
func (s *Session) ToggleWishlistPanel() Panels {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels.WishlistOpen = !s.panels.WishlistOpen
	return s.panels
}

// Feed is the page's notification feed, for flows that run outside the
// session such as the contact form.
func (s *Session) Feed() *notify.Feed {
	return s.feed
}

// Notifications returns the messages currently on screen.
func (s *Session) Notifications() []notify.Notification {
	return s.feed.Active()
}

// View is a full snapshot of the page state.
type View struct {
	ID            string                `json:"id"`
	ProfileID     string                `json:"profile_id"`
	Theme         domain.Theme          `json:"theme"`
	ThemeLabel    string                `json:"theme_label"`
	Filter        string                `json:"filter"`
	Categories    []string              `json:"categories"`
	Panels        Panels                `json:"panels"`
	Cart          display.CartView      `json:"cart"`
	Wishlist      display.WishlistView  `json:"wishlist"`
	Products      []catalog.Tile        `json:"products"`
	Notifications []notify.Notification `json:"notifications"`
}

// View snapshots the page state without rendering.
func (s *Session) View(categories []string) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:            s.ID,
		ProfileID:     s.ProfileID,
		Theme:         s.theme,
		ThemeLabel:    s.theme.ToggleLabel(),
		Filter:        s.shelf.CurrentFilter(),
		Categories:    categories,
		Panels:        s.panels,
		Cart:          display.CartSummary(s.cart),
		Wishlist:      display.WishlistSummary(s.wishlist, s.shelf.Products()),
		Products:      s.shelf.Tiles(),
		Notifications: s.feed.Active(),
	}
}

// FrameSource is implemented by renderers that keep the latest markup.
type FrameSource interface {
	Frame() display.Frame
}

// Frame returns the latest rendered fragments, if the renderer keeps them.
func (s *Session) Frame() (display.Frame, bool) {
	src, ok := s.renderer.(FrameSource)
	if !ok {
		return display.Frame{}, false
	}
	return src.Frame(), true
}
