package game

import (
	"testing"

	"fractal-marble/backend/internal/level"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	levels, err := level.NewManager(level.Catalog())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewStore(levels)
}

func TestStore_DefaultsToPaused(t *testing.T) {
	s := newTestStore(t)

	state := s.State()
	if !state.Paused {
		t.Error("Игра должна стартовать на паузе")
	}
	if state.LevelIndex != 0 || state.Level.Name != level.Catalog()[0].Name {
		t.Errorf("Ожидали первый уровень, получили %d %q", state.LevelIndex, state.Level.Name)
	}
}

func TestStore_Observers(t *testing.T) {
	s := newTestStore(t)

	var changes []StoreState
	s.Subscribe(func(prev, next StoreState) {
		changes = append(changes, next)
	})

	if !s.SetPaused(false) {
		t.Error("SetPaused(false) должен изменить состояние")
	}
	if s.SetPaused(false) {
		t.Error("Повторный SetPaused не должен уведомлять")
	}
	if !s.TogglePaused() {
		t.Error("TogglePaused должен вернуть паузу")
	}

	if _, err := s.SelectLevel(2); err != nil {
		t.Fatalf("SelectLevel: %v", err)
	}
	if _, err := s.SelectLevel(99); err == nil {
		t.Error("Ожидали ошибку для несуществующего уровня")
	}

	s.Reset()
	next := s.NextLevel()

	if len(changes) != 5 {
		t.Fatalf("Ожидали 5 уведомлений, получили %d", len(changes))
	}
	if changes[2].LevelIndex != 2 {
		t.Errorf("Третье уведомление: уровень 2, получили %d", changes[2].LevelIndex)
	}
	if changes[3].Resets != 1 {
		t.Errorf("Reset должен увеличить счетчик, получили %d", changes[3].Resets)
	}
	if next.Name != level.Catalog()[3].Name {
		t.Errorf("NextLevel: ожидали %q, получили %q", level.Catalog()[3].Name, next.Name)
	}
	if len(s.Levels()) != len(level.Catalog()) {
		t.Error("Levels должен вернуть все уровни")
	}
}
