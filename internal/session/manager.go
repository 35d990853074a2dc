// Package session binds a cart store and a checkout draft to an opaque
// session id. Carts live in process memory only; they are never written
// to the document store and expire after a period of inactivity.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	"github.com/webdroid21/component-pulse-sub000/internal/checkout"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
)

// Session is one browsing session's cart and checkout pair.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Checkout

	lastSeen time.Time
}

// CheckoutFactory builds the per-session orchestrator around a cart.
type CheckoutFactory func(sessionID string, c *cart.Store) *checkout.Checkout

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  CheckoutFactory
	now      func() time.Time
}

func NewManager(ttl time.Duration, factory CheckoutFactory) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Get returns the session and refreshes its inactivity deadline.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = m.now()
	return s, true
}

// Create starts a fresh session with an empty cart.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	c := cart.NewStore()
	s := &Session{
		ID:       id,
		Cart:     c,
		Checkout: m.factory(id, c),
		lastSeen: m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// GetOrCreate resolves the id to an existing session or starts a new
// one when the id is empty, unknown, or already expired.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	}
	return m.Create()
}

// Sweep evicts sessions idle past the TTL and reports how many.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if n := m.Sweep(); n > 0 {
					logging.FromCtx(ctx).Info("expired cart sessions evicted", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
