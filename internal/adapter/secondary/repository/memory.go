package repository

import "sync"

// MemoryRepository keeps state in maps. It never fails and is meant for
// tests and dry runs.
type MemoryRepository struct {
	mu       sync.Mutex
	previous *string
	ids      map[string]uint32
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{ids: make(map[string]uint32)}
}

func (m *MemoryRepository) PreviousTarget() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.previous == nil {
		return "", false
	}
	return *m.previous, true
}

func (m *MemoryRepository) SavePreviousTarget(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.previous = &name
	return nil
}

func (m *MemoryRepository) NotificationID(target string) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[target]
}

func (m *MemoryRepository) SaveNotificationID(target string, id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[target] = id
	return nil
}
