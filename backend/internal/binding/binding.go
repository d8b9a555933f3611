// Package binding публикует значения для GPU-слоя рендеринга.
package binding

import (
	"context"
	"sync"
)

// Slot идентификатор биндинга: группа и номер задаются контрактом с рендерером
type Slot struct {
	Label string `json:"label"`
	Group int    `json:"group"`
	ID    int    `json:"id"`
}

var (
	// CameraMatrix матрица камеры, 16 float32
	CameraMatrix = Slot{Label: "iMat", Group: 0, ID: 0}
	// MarblePosition позиция шарика, 3 float32
	MarblePosition = Slot{Label: "iMarblePos", Group: 0, ID: 8}
)

// Update новое значение биндинга
type Update struct {
	Slot  Slot      `json:"slot"`
	Value []float32 `json:"value"`
	Seq   uint64    `json:"seq"`
}

// Store хранит последние значения биндингов и рассылает изменения подписчикам.
// Повторная публикация того же значения подавляется.
type Store struct {
	mu     sync.RWMutex
	values map[Slot][]float32
	seq    uint64
	subs   map[chan Update]struct{}

	bufferSize int
	dropped    uint64
}

// NewStore создает хранилище биндингов
func NewStore() *Store {
	return &Store{
		values:     make(map[Slot][]float32),
		subs:       make(map[chan Update]struct{}),
		bufferSize: 64,
	}
}

// Publish сохраняет значение. Возвращает false, если значение не изменилось.
func (s *Store) Publish(slot Slot, value []float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.values[slot]; ok && equalFloats(prev, value) {
		return false
	}

	stored := make([]float32, len(value))
	copy(stored, value)
	s.values[slot] = stored
	s.seq++

	upd := Update{Slot: slot, Value: stored, Seq: s.seq}
	for ch := range s.subs {
		select {
		case ch <- upd:
		default:
			// медленный подписчик - кадр пропускается
			s.dropped++
		}
	}
	return true
}

// Get возвращает копию последнего значения
func (s *Store) Get(slot Slot) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[slot]
	if !ok {
		return nil, false
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, true
}

// Snapshot все текущие значения
func (s *Store) Snapshot() []Update {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Update, 0, len(s.values))
	for slot, v := range s.values {
		value := make([]float32, len(v))
		copy(value, v)
		out = append(out, Update{Slot: slot, Value: value, Seq: s.seq})
	}
	return out
}

// Subscribe подписывает на обновления до отмены ctx или вызова отписки
func (s *Store) Subscribe(ctx context.Context) (<-chan Update, func()) {
	ch := make(chan Update, s.bufferSize)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-done:
		}
	}()

	return ch, unsub
}

// Seq номер последней публикации
func (s *Store) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Dropped количество обновлений, не доставленных медленным подписчикам
func (s *Store) Dropped() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
