package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind selects the tone of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Color is the background the UI paints for the kind.
func (k Kind) Color() string {
	switch k {
	case KindSuccess:
		return "#28a745"
	case KindError:
		return "#dc3545"
	default:
		return "#007bff"
	}
}

// Display durations.
const (
	CartAddedTTL = 3 * time.Second
	DefaultTTL   = 5 * time.Second
	SlideOut     = 300 * time.Millisecond
)

// Notification is a transient message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Color     string    `json:"color"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	// Leaving is set once the display time has elapsed and the slide-out runs.
	Leaving bool `json:"leaving"`
}

// Scheduler runs f once after d. time.AfterFunc satisfies it via SchedulerFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func())

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) { fn(d, f) }

// RealScheduler uses the runtime timers.
var RealScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) {
	time.AfterFunc(d, f)
})

// Feed holds the notifications currently visible for one session. Every
// notification removes itself; there is no queueing, deduplication or cancel.
type Feed struct {
	mu        sync.Mutex
	items     []Notification
	scheduler Scheduler
	now       func() time.Time
}

// Option configures a Feed.
type Option func(*Feed)

// WithScheduler overrides the timer source.
func WithScheduler(s Scheduler) Option {
	return func(f *Feed) { f.scheduler = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// NewFeed creates an empty feed.
func NewFeed(opts ...Option) *Feed {
	f := &Feed{
		scheduler: RealScheduler,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Emit shows a message for ttl and schedules its removal after the slide-out.
func (f *Feed) Emit(kind Kind, message string, ttl time.Duration) Notification {
	now := f.now().UTC()
	n := Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Color:     kind.Color(),
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	f.mu.Unlock()

	f.scheduler.AfterFunc(ttl+SlideOut, func() { f.dismiss(n.ID) })
	return n
}

// Success emits a success notification with the default duration.
func (f *Feed) Success(message string) Notification {
	return f.Emit(KindSuccess, message, DefaultTTL)
}

// Error emits an error notification with the default duration.
func (f *Feed) Error(message string) Notification {
	return f.Emit(KindError, message, DefaultTTL)
}

// Info emits an info notification with the default duration.
func (f *Feed) Info(message string) Notification {
	return f.Emit(KindInfo, message, DefaultTTL)
}

// Active returns the notifications still on screen, oldest first.
func (f *Feed) Active() []Notification {
	now := f.now().UTC()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notification, len(f.items))
	for i, n := range f.items {
		n.Leaving = !now.Before(n.ExpiresAt)
		out[i] = n
	}
	return out
}

func (f *Feed) dismiss(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return
		}
	}
}
