package cart

import (
	"context"
	"sync"
)

// StoreFactory builds the durable store for one session id.
type StoreFactory func(sessionID string) Store

// Manager hands out one container per session. Containers are constructed
// lazily on first access and rehydrated from their session store; callers
// (and tests) construct isolated managers rather than sharing an ambient
// singleton.
type Manager struct {
	mu         sync.Mutex
	factory    StoreFactory
	containers map[string]*Container
}

func NewManager(factory StoreFactory) *Manager {
	return &Manager{
		factory:    factory,
		containers: make(map[string]*Container),
	}
}

// Get returns the session's container, creating and rehydrating it on first
// use.
func (m *Manager) Get(ctx context.Context, sessionID string) *Container {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.containers[sessionID]; ok {
		return c
	}
	c := New(ctx, m.factory(sessionID))
	m.containers[sessionID] = c
	return c
}

// Drop forgets the session's in-memory container. The durable store is left
// alone, so a later Get rehydrates from whatever was last persisted.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, sessionID)
}
