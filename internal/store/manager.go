package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_active_sessions",
	Help: "Number of sessions currently held in memory.",
})

// Session binds a cart and a wishlist to one shopper. Guest sessions
// carry an empty Username.
type Session struct {
	ID       string
	Username string
	Cart     *CartStore
	Wishlist *WishlistStore

	lastSeen time.Time
}

// ObserverSet is attached to every session at creation time so that
// downstream consumers see all mutations regardless of which session
// they happen in.
type ObserverSet struct {
	Cart     []CartObserver
	Wishlist []WishlistObserver
}

// Manager owns the session map. Sessions idle longer than the TTL are
// swept; a swept session's cart and wishlist are gone for good.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	ttl       time.Duration
	observers ObserverSet
	log       *slog.Logger
}

func NewManager(ttl time.Duration, observers ObserverSet, log *slog.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		observers: observers,
		log:       log,
	}
}

// GetOrCreate returns the session with the given id, refreshing its
// idle timer, or creates it when absent. Created reports which.
func (m *Manager) GetOrCreate(id string) (sess *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.lastSeen = time.Now()
		return s, false
	}
	s := m.newSessionLocked(id, "")
	return s, true
}

// Create mints a fresh session with a generated id, optionally bound
// to an authenticated username.
func (m *Manager) Create(username string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newSessionLocked(uuid.NewString(), username)
}

// Get returns the session without creating one.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete drops a session immediately, e.g. on logout.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		activeSessions.Dec()
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until the context is cancelled. Sweep
// frequency is a quarter of the TTL, at least once a minute.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.sweep(time.Now()); n > 0 {
				m.log.Info("swept idle sessions", "count", n, "remaining", m.Len())
			}
		}
	}
}

func (m *Manager) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	swept := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			activeSessions.Dec()
			swept++
		}
	}
	return swept
}

func (m *Manager) newSessionLocked(id, username string) *Session {
	s := &Session{
		ID:       id,
		Username: username,
		Cart:     NewCartStore(id),
		Wishlist: NewWishlistStore(id),
		lastSeen: time.Now(),
	}
	for _, fn := range m.observers.Cart {
		s.Cart.Subscribe(fn)
	}
	for _, fn := range m.observers.Wishlist {
		s.Wishlist.Subscribe(fn)
	}
	m.sessions[id] = s
	activeSessions.Inc()
	return s
}
