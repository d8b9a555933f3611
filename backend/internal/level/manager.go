package level

import (
	"fmt"
	"sync"
)

// Manager хранит набор уровней и текущий выбор
type Manager struct {
	levels  []Data
	current int
	mu      sync.RWMutex
}

// NewManager создает менеджер. Все уровни проходят Validate.
func NewManager(levels []Data) (*Manager, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels configured")
	}
	for i, l := range levels {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
	}

	own := make([]Data, len(levels))
	copy(own, levels)
	return &Manager{levels: own}, nil
}

// Current возвращает копию текущего уровня и его индекс
func (m *Manager) Current() (Data, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.levels[m.current], m.current
}

// Select выбирает уровень по индексу
func (m *Manager) Select(index int) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.levels) {
		return Data{}, fmt.Errorf("level index %d out of range [0, %d)", index, len(m.levels))
	}
	m.current = index
	return m.levels[index], nil
}

// Next переключает на следующий уровень по кругу
func (m *Manager) Next() (Data, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = (m.current + 1) % len(m.levels)
	return m.levels[m.current], m.current
}

// Get возвращает уровень по индексу
func (m *Manager) Get(index int) (Data, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index < 0 || index >= len(m.levels) {
		return Data{}, false
	}
	return m.levels[index], true
}

// Names имена всех уровней
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.levels))
	for i, l := range m.levels {
		names[i] = l.Name
	}
	return names
}

// Count количество уровней
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.levels)
}
