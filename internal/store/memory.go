// internal/store/memory.go
//
// In-memory registry of live round engines.
// The play server registers one engine per WebSocket connection and removes it
// when the connection closes. Nothing here survives a restart.
//
// Characteristics:
//   - Stores *game.Engine values keyed by Engine.ID().
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Errors are returned for missing IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/typerush/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("store: engine not found")

// Store defines the registry interface for live engines.
type Store interface {
	// Save adds or replaces an engine under its ID.
	Save(ctx context.Context, e *game.Engine) error

	// Get retrieves an engine by ID.
	Get(ctx context.Context, id string) (*game.Engine, error)

	// Delete removes an engine; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports how many engines are registered.
	Len() int

	// CloseAll stops every registered engine and empties the registry.
	CloseAll()
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex            // guards engines map
	engines map[string]*game.Engine // keyed by Engine.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{engines: make(map[string]*game.Engine)}
}

func (m *memory) Save(ctx context.Context, e *game.Engine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines[e.ID()] = e
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.engines[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.engines)
}

func (m *memory) CloseAll() {
	m.mu.Lock()
	all := m.engines
	m.engines = make(map[string]*game.Engine)
	m.mu.Unlock()
	for _, e := range all {
		e.Close()
	}
}
