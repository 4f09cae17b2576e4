package pipeline

import (
	"fmt"
	"sync"
)

// ErrUnknownStrategy is returned when selecting a strategy name that has not
// been registered.
var ErrUnknownStrategy = fmt.Errorf("unknown strategy")

// Manager is a named-strategy registry for one pipeline stage. Strategies are
// long-lived: selecting one stores the name and triggers no initialization.
type Manager[T any] struct {
	mu         sync.RWMutex
	strategies map[string]T
	selected   string
}

// NewManager returns an empty Manager.
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{strategies: map[string]T{}}
}

// Register adds a named strategy. Re-registering the same name replaces the
// previous implementation. The first registered strategy becomes the
// selection if none has been made yet.
func (m *Manager[T]) Register(name string, impl T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies[name] = impl
	if m.selected == "" {
		m.selected = name
	}
}

// Select makes the named strategy the active one. It fails with
// ErrUnknownStrategy if the name has not been registered.
func (m *Manager[T]) Select(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.strategies[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	m.selected = name
	return nil
}

// Resolve returns the named strategy without touching the stored selection,
// so per-request overrides stay local to the caller. An empty name resolves
// to the current selection. It fails with ErrUnknownStrategy when the name
// has not been registered, or when nothing has been registered at all.
func (m *Manager[T]) Resolve(name string) (T, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var zero T
	if name == "" {
		name = m.selected
	}
	impl, ok := m.strategies[name]
	if !ok {
		return zero, "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return impl, name, nil
}

// Selected returns the currently selected strategy and its name. ok is false
// when nothing has been registered.
func (m *Manager[T]) Selected() (impl T, name string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	impl, ok = m.strategies[m.selected]
	return impl, m.selected, ok
}

// List returns the full name-to-strategy mapping.
func (m *Manager[T]) List() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]T, len(m.strategies))
	for name, impl := range m.strategies {
		out[name] = impl
	}
	return out
}

// Stage managers, one per pipeline stage.
type (
	ReaderManager    = Manager[Reader]
	ChunkerManager   = Manager[Chunker]
	EmbedderManager  = Manager[Embedder]
	RetrieverManager = Manager[Retriever]
	GeneratorManager = Manager[Generator]
)
