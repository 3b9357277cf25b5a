package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

type entry struct {
	session domain.Session
	cart    *cart.Store
	release func()
}

type tokenManager struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func newTokenManager() *tokenManager {
	return &tokenManager{
		entries: make(map[string]*entry),
	}
}

func (m *tokenManager) put(token string, e *entry) {
	m.mu.Lock()
	m.entries[token] = e
	m.mu.Unlock()
}

// get returns the live entry for token. Expired entries are dropped and
// returned as evicted so the caller can release them.
func (m *tokenManager) get(token string, now time.Time) (live *entry, evicted *entry) {
	m.mu.RLock()
	e, ok := m.entries[token]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if now.After(e.session.ExpiresAt) {
		return nil, m.take(token)
	}
	return e, nil
}

func (m *tokenManager) take(token string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[token]
	if !ok {
		return nil
	}
	delete(m.entries, token)
	return e
}

func (m *tokenManager) expired(now time.Time) []*entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entry
	for token, e := range m.entries {
		if now.After(e.session.ExpiresAt) {
			delete(m.entries, token)
			out = append(out, e)
		}
	}
	return out
}

func (m *tokenManager) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
