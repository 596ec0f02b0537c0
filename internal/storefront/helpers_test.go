package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qasimqz1/ecommerce/pkg/logger"

	"github.com/qasimqz1/ecommerce/internal/auth"
	"github.com/qasimqz1/ecommerce/internal/catalog"
	"github.com/qasimqz1/ecommerce/internal/display"
	"github.com/qasimqz1/ecommerce/internal/domain"
	"github.com/qasimqz1/ecommerce/internal/event"
	"github.com/qasimqz1/ecommerce/internal/store"
)

// ============================================================================
// Test doubles
// ============================================================================

type recordingRenderer struct {
	mu        sync.Mutex
	carts     []display.CartView
	wishlists []display.WishlistView
}

func (r *recordingRenderer) RenderCart(_ context.Context, v display.CartView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, v)
	return nil
}

func (r *recordingRenderer) RenderWishlist(_ context.Context, v display.WishlistView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wishlists = append(r.wishlists, v)
	return nil
}

func (r *recordingRenderer) cartRenders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

func (r *recordingRenderer) lastCart() display.CartView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[len(r.carts)-1]
}

func (r *recordingRenderer) lastWishlist() display.WishlistView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wishlists[len(r.wishlists)-1]
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCartUpdated(ctx context.Context, ref event.Ref, cart *domain.Cart) error {
	args := m.Called(ctx, ref, cart)
	return args.Error(0)
}

func (m *mockPublisher) PublishCartCheckedOut(ctx context.Context, ref event.Ref, receipt domain.Receipt) error {
	args := m.Called(ctx, ref, receipt)
	return args.Error(0)
}

func (m *mockPublisher) PublishWishlistUpdated(ctx context.Context, ref event.Ref, wishlist *domain.Wishlist) error {
	args := m.Called(ctx, ref, wishlist)
	return args.Error(0)
}

func newMockPublisher() *mockPublisher {
	p := new(mockPublisher)
	p.On("PublishCartUpdated", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	p.On("PublishCartCheckedOut", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	p.On("PublishWishlistUpdated", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return p
}

// noTimers never fires, so notifications stay until a test inspects them.
type noTimers struct{}

func (noTimers) AfterFunc(time.Duration, func()) {}

// ============================================================================
// Fixtures
// ============================================================================

const testCatalog = `
products:
  - name: Mug
    category: home
    price: "9.99"
    image: mug.png
    description: A sturdy mug for coffee.
  - name: Shirt
    category: clothing
    price: "19.99"
    image: shirt.png
    description: Plain cotton shirt.
  - name: Lamp
    category: home
    price: "24.50"
    image: lamp.png
    description: Warm desk light.
`

type fixture struct {
	manager   *Manager
	renderer  *recordingRenderer
	publisher *mockPublisher
	store     store.Store
}

func newFixture(t *testing.T, backing store.Store, gated bool, opts ...Option) *fixture {
	t.Helper()

	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	f := &fixture{
		renderer:  &recordingRenderer{},
		publisher: newMockPublisher(),
		store:     backing,
	}

	var gate *auth.Gate
	if gated {
		gate = auth.NewGate(backing, logger.Discard())
	}

	opts = append([]Option{WithScheduler(noTimers{})}, opts...)
	f.manager = NewManager(backing, cat, gate, f.publisher,
		func() display.Renderer { return f.renderer }, logger.Discard(), opts...)
	return f
}

func (f *fixture) open(t *testing.T, profileID string) *Session {
	t.Helper()
	sess, err := f.manager.Open(context.Background(), profileID)
	require.NoError(t, err)
	return sess
}
