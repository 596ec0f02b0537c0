package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler collects timers so tests can fire them explicitly.
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualScheduler) fire(i int) {
	m.mu.Lock()
	f := m.funcs[i]
	m.mu.Unlock()
	f()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEmit_AppearsAndSchedulesRemoval(t *testing.T) {
	sched := &manualScheduler{}
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	feed := NewFeed(WithScheduler(sched), WithClock(fixedClock(start)))

	n := feed.Emit(KindSuccess, "Mug added to cart!", CartAddedTTL)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "#28a745", n.Color)
	assert.Equal(t, start.Add(3*time.Second), n.ExpiresAt)
	require.Len(t, sched.delays, 1)
	assert.Equal(t, 3300*time.Millisecond, sched.delays[0])

	active := feed.Active()
	require.Len(t, active, 1)
	assert.False(t, active[0].Leaving)

	sched.fire(0)
	assert.Empty(t, feed.Active())
}

func TestEmit_StacksWithoutDeduplication(t *testing.T) {
	sched := &manualScheduler{}
	feed := NewFeed(WithScheduler(sched))

	feed.Info("Shirt removed from wishlist")
	feed.Success("Shirt added to wishlist")
	feed.Info("Shirt removed from wishlist")

	active := feed.Active()
	require.Len(t, active, 3)
	assert.Equal(t, KindInfo, active[0].Kind)
	assert.Equal(t, KindSuccess, active[1].Kind)

	// Each notification removes only itself, in any order.
	sched.fire(1)
	active = feed.Active()
	require.Len(t, active, 2)
	assert.Equal(t, KindInfo, active[0].Kind)
	assert.Equal(t, KindInfo, active[1].Kind)

	sched.fire(1)
	sched.fire(0)
	sched.fire(2)
	assert.Empty(t, feed.Active())
}

func TestActive_MarksLeavingAfterDisplayTime(t *testing.T) {
	sched := &manualScheduler{}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	feed := NewFeed(WithScheduler(sched), WithClock(func() time.Time { return clock }))

	feed.Error("Please correct the highlighted fields.")
	clock = now.Add(DefaultTTL + 100*time.Millisecond)

	active := feed.Active()
	require.Len(t, active, 1)
	assert.True(t, active[0].Leaving)
	assert.Equal(t, "#dc3545", active[0].Color)
}

func TestRealScheduler_RemovesItself(t *testing.T) {
	feed := NewFeed()
	feed.Emit(KindInfo, "short", time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(feed.Active()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestKindColor(t *testing.T) {
	assert.Equal(t, "#007bff", KindInfo.Color())
	assert.Equal(t, "#007bff", Kind("other").Color())
}
