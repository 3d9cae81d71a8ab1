package state

import (
	"database/sql"
	"sync"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	session *Session
	saves   []Session
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, s)
	m.session = &s
}

func (m *Mock) GetSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Saves returns every session passed to SaveSession, in order.
func (m *Mock) Saves() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Session(nil), m.saves...)
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool { return m.closed }

var _ Interface = (*Mock)(nil)
