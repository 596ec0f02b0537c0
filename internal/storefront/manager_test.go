package storefront

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/qasimqz1/ecommerce/pkg/errors"

	"github.com/qasimqz1/ecommerce/internal/store"
	"github.com/qasimqz1/ecommerce/internal/store/memory"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestOpen_RequiresProfileID(t *testing.T) {
	f := newFixture(t, memory.NewStore(), false)

	_, err := f.manager.Open(context.Background(), "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOpen_GatedUntilAuthenticated(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	f := newFixture(t, backing, true)

	_, err := f.manager.Open(ctx, "p1")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeAuthRequired, appErr.Code)
	assert.Equal(t, http.StatusForbidden, apperrors.HTTPStatus(err))
	assert.Zero(t, f.manager.Len())

	require.NoError(t, store.ForProfile(backing, "p1").Set(ctx, store.KeyAuthMarker, "a@b.co"))

	sess, err := f.manager.Open(ctx, "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, f.manager.Len())
}

func TestGet(t *testing.T) {
	f := newFixture(t, memory.NewStore(), false)
	sess := f.open(t, "p1")

	got, err := f.manager.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = f.manager.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGet_ExpiresIdleSessions(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	f := newFixture(t, memory.NewStore(), false, WithClock(clock.Now), WithIdleTTL(10*time.Minute))
	sess := f.open(t, "p1")

	clock.Advance(9 * time.Minute)
	_, err := f.manager.Get(sess.ID)
	require.NoError(t, err)

	// Get refreshed the session, so another nine minutes is still fine.
	clock.Advance(9 * time.Minute)
	_, err = f.manager.Get(sess.ID)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	_, err = f.manager.Get(sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, f.manager.Len())
}

func TestSweep(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	f := newFixture(t, memory.NewStore(), false, WithClock(clock.Now), WithIdleTTL(time.Minute))

	stale := f.open(t, "p1")
	clock.Advance(50 * time.Second)
	fresh := f.open(t, "p2")
	clock.Advance(20 * time.Second)

	assert.Equal(t, 1, f.manager.Sweep())
	assert.Equal(t, 1, f.manager.Len())

	_, err := f.manager.Get(stale.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.manager.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestClose(t *testing.T) {
	f := newFixture(t, memory.NewStore(), false)
	sess := f.open(t, "p1")

	f.manager.Close(sess.ID)
	f.manager.Close(sess.ID)

	assert.Zero(t, f.manager.Len())
	_, err := f.manager.Get(sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t, memory.NewStore(), false, WithIdleTTL(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.manager.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t, memory.NewStore(), false)
	ctx := context.Background()

	a := f.open(t, "p1")
	b := f.open(t, "p1")
	a.AddToCart(ctx, "Mug", price("9.99"), "mug.png")
	a.FilterProducts("clothing")

	vb := b.View(nil)
	assert.True(t, vb.Cart.Empty)
	assert.Equal(t, "all", vb.Filter)
}
