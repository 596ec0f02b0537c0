package storefront

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/qasimqz1/ecommerce/pkg/errors"
	"github.com/qasimqz1/ecommerce/pkg/logger"

	"github.com/qasimqz1/ecommerce/internal/auth"
	"github.com/qasimqz1/ecommerce/internal/catalog"
	"github.com/qasimqz1/ecommerce/internal/display"
	"github.com/qasimqz1/ecommerce/internal/domain"
	"github.com/qasimqz1/ecommerce/internal/event"
	"github.com/qasimqz1/ecommerce/internal/notify"
	"github.com/qasimqz1/ecommerce/internal/store"
)

// CodeAuthRequired marks a session refused because the gate is still up.
const CodeAuthRequired = "AUTH_REQUIRED"

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 30 * time.Minute

// RendererFactory builds the renderer for a new page.
type RendererFactory func() display.Renderer

// Manager owns the open sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store       store.Store
	catalog     *catalog.Catalog
	gate        *auth.Gate
	events      event.Publisher
	newRenderer RendererFactory
	scheduler   notify.Scheduler
	idleTTL     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTTL sets how long idle sessions live.
func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithScheduler overrides the notification timer source.
func WithScheduler(s notify.Scheduler) Option {
	return func(m *Manager) { m.scheduler = s }
}

// NewManager creates a session manager over the shared store.
func NewManager(
	s store.Store,
	cat *catalog.Catalog,
	gate *auth.Gate,
	events event.Publisher,
	renderers RendererFactory,
	logger *slog.Logger,
	opts ...Option,
) *Manager {
	if events == nil {
		events = event.Noop{}
	}
	m := &Manager{
		sessions:    make(map[string]*Session),
		store:       s,
		catalog:     cat,
		gate:        gate,
		events:      events,
		newRenderer: renderers,
		scheduler:   notify.RealScheduler,
		idleTTL:     DefaultIdleTTL,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog sessions are opened over.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Open starts a page session for the profile. It is refused while the
// profile has not passed the auth gate.
func (m *Manager) Open(ctx context.Context, profileID string) (*Session, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, apperrors.InvalidInput("profile id is required")
	}
	if m.gate != nil && m.gate.Required(ctx, profileID) {
		return nil, apperrors.Forbidden("log in or create an account to continue").WithCode(CodeAuthRequired)
	}

	now := m.now().UTC()
	sess := &Session{
		ID:        uuid.New().String(),
		ProfileID: profileID,
		OpenedAt:  now,
		lastSeen:  now,
		cart:      domain.NewCart(),
		shelf:     catalog.NewShelf(m.catalog),
		feed:      notify.NewFeed(notify.WithScheduler(m.scheduler), notify.WithClock(m.now)),
		renderer:  m.newRenderer(),
		store:     store.ForProfile(m.store, profileID),
		events:    m.events,
	}
	ctx = logger.WithSessionID(logger.WithProfileID(ctx, profileID), sess.ID)
	sess.logger = logger.WithContext(ctx, m.logger)

	sess.mu.Lock()
	sess.hydrate(ctx)
	sess.renderCart(ctx)
	sess.renderWishlist(ctx)
	sess.mu.Unlock()

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	activeSessions.Inc()

	m.logger.InfoContext(ctx, "session opened",
		slog.String("session_id", sess.ID),
		slog.String("profile_id", profileID),
		slog.String("theme", string(sess.theme)),
		slog.Int("wishlist_count", sess.wishlist.Len()),
	)
	return sess, nil
}

// Get returns an open session and marks it as used. Sessions idle longer than
// the TTL are treated as gone.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}

	now := m.now()
	if now.Sub(sess.idleSince()) > m.idleTTL {
		m.Close(id)
		return nil, apperrors.NotFound("session", id)
	}
	sess.touch(now)
	return sess, nil
}

// Close discards a session. Unknown IDs are ignored.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		activeSessions.Dec()
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops every session idle longer than the TTL and returns how many
// were dropped.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	var expired []string
	for id, sess := range m.sessions {
		if now.Sub(sess.idleSince()) > m.idleTTL {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	activeSessions.Sub(float64(len(expired)))
	return len(expired)
}

// Run sweeps idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.InfoContext(ctx, "expired idle sessions", slog.Int("count", n))
			}
		}
	}
}
