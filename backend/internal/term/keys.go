package term

import (
	"sort"
	"sync"
	"time"

	"fractal-marble/backend/internal/input"
)

// DefaultHoldWindow сколько клавиша считается зажатой после последнего нажатия.
// Терминал не присылает отпускание, только автоповтор.
const DefaultHoldWindow = 150 * time.Millisecond

// AutoRelease превращает нажатия терминала в удержание с таймаутом
type AutoRelease struct {
	mu   sync.Mutex
	keys *input.HeldKeys
	hold time.Duration
	last map[string]time.Time
	now  func() time.Time
}

// NewAutoRelease создает трекер поверх набора зажатых клавиш
func NewAutoRelease(keys *input.HeldKeys, hold time.Duration) *AutoRelease {
	if hold <= 0 {
		hold = DefaultHoldWindow
	}
	return &AutoRelease{
		keys: keys,
		hold: hold,
		last: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Press зажимает клавишу или продлевает удержание при автоповторе
func (a *AutoRelease) Press(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.last[key] = a.now()
	a.keys.Press(key)
}

// Expire отпускает клавиши без повторов дольше окна удержания
func (a *AutoRelease) Expire() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	var released []string
	for key, at := range a.last {
		if now.Sub(at) < a.hold {
			continue
		}
		delete(a.last, key)
		a.keys.Release(key)
		released = append(released, key)
	}
	sort.Strings(released)
	return released
}

// ReleaseAll отпускает все клавиши сразу
func (a *AutoRelease) ReleaseAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.last = make(map[string]time.Time)
	a.keys.Apply(input.Event{Type: input.EventBlur})
}
