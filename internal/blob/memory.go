package blob

import (
	"context"
	"sort"
	"sync"

	"catchrec/pkg/sentinel"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]string
	// Err, when set, is returned by every write.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]string)}
}

func (m *MemoryStore) WriteText(_ context.Context, name, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.objects[name] = text
	return nil
}

func (m *MemoryStore) ReadText(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if text, ok := m.objects[name]; ok {
		return text, nil
	}
	return "", sentinel.ErrNotFound
}

// Names returns the stored object names in ascending order.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a stored object and whether it exists.
func (m *MemoryStore) Get(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.objects[name]
	return text, ok
}
