package game

import (
	"fmt"
	"sync"

	"fractal-marble/backend/internal/level"
)

// StoreState снимок состояния игрового стора
type StoreState struct {
	Level      level.Data `json:"level"`
	LevelIndex int        `json:"level_index"`
	Paused     bool       `json:"paused"`

	// Resets растет при каждом явном сбросе уровня
	Resets uint64 `json:"resets"`
}

// StoreObserver получает новое состояние после каждого изменения
type StoreObserver func(prev, next StoreState)

// Store хранит выбранный уровень и флаг паузы. Игра стартует на паузе.
type Store struct {
	mu        sync.RWMutex
	levels    *level.Manager
	paused    bool
	resets    uint64
	observers []StoreObserver
}

// NewStore создает стор поверх менеджера уровней
func NewStore(levels *level.Manager) *Store {
	return &Store{
		levels: levels,
		paused: true,
	}
}

// Subscribe регистрирует наблюдателя. Наблюдатели вызываются вне блокировки.
func (s *Store) Subscribe(fn StoreObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// State текущее состояние
func (s *Store) State() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() StoreState {
	data, index := s.levels.Current()
	return StoreState{
		Level:      data,
		LevelIndex: index,
		Paused:     s.paused,
		Resets:     s.resets,
	}
}

// Paused на паузе ли игра
func (s *Store) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// Levels имена доступных уровней
func (s *Store) Levels() []string {
	return s.levels.Names()
}

// SelectLevel выбирает уровень по индексу
func (s *Store) SelectLevel(index int) (level.Data, error) {
	prev, next, err := s.update(func() error {
		if _, err := s.levels.Select(index); err != nil {
			return fmt.Errorf("select level: %w", err)
		}
		return nil
	})
	if err != nil {
		return level.Data{}, err
	}
	s.notify(prev, next)
	return next.Level, nil
}

// NextLevel переходит к следующему уровню по кругу
func (s *Store) NextLevel() level.Data {
	prev, next, _ := s.update(func() error {
		s.levels.Next()
		return nil
	})
	s.notify(prev, next)
	return next.Level
}

// SetPaused ставит или снимает паузу. Возвращает false, если состояние не изменилось.
func (s *Store) SetPaused(paused bool) bool {
	prev, next, _ := s.update(func() error {
		s.paused = paused
		return nil
	})
	if prev.Paused == next.Paused {
		return false
	}
	s.notify(prev, next)
	return true
}

// TogglePaused переключает паузу и возвращает новое значение
func (s *Store) TogglePaused() bool {
	prev, next, _ := s.update(func() error {
		s.paused = !s.paused
		return nil
	})
	s.notify(prev, next)
	return next.Paused
}

// Reset запрашивает перезапуск текущего уровня
func (s *Store) Reset() {
	prev, next, _ := s.update(func() error {
		s.resets++
		return nil
	})
	s.notify(prev, next)
}

func (s *Store) update(fn func() error) (StoreState, StoreState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.stateLocked()
	if err := fn(); err != nil {
		return prev, prev, err
	}
	return prev, s.stateLocked(), nil
}

func (s *Store) notify(prev, next StoreState) {
	s.mu.RLock()
	observers := make([]StoreObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(prev, next)
	}
}
